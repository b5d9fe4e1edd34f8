package bytecode

import "fmt"

type Opcode byte

const (
	OpNop     Opcode = 0x00
	OpIconst0 Opcode = 0x03
	OpIconst1 Opcode = 0x04
	OpIconst2 Opcode = 0x05
	OpIconst3 Opcode = 0x06
	OpIconst4 Opcode = 0x07
	OpIconst5 Opcode = 0x08
	OpBipush  Opcode = 0x10 // s1 value
	OpSipush  Opcode = 0x11 // s2 value
	OpLdc     Opcode = 0x12 // u2 number constant
	OpSldc    Opcode = 0x13 // u2 string constant

	OpIload  Opcode = 0x15 // u1 slot
	OpIload0 Opcode = 0x1a
	OpIload1 Opcode = 0x1b
	OpIload2 Opcode = 0x1c
	OpIload3 Opcode = 0x1d

	OpIstore  Opcode = 0x36 // u1 slot
	OpIstore0 Opcode = 0x3b
	OpIstore1 Opcode = 0x3c
	OpIstore2 Opcode = 0x3d
	OpIstore3 Opcode = 0x3e

	OpPop Opcode = 0x57
	OpDup Opcode = 0x59

	OpIadd Opcode = 0x60
	OpSadd Opcode = 0x61
	OpIsub Opcode = 0x64
	OpImul Opcode = 0x68
	OpIdiv Opcode = 0x6c
	OpIrem Opcode = 0x70
	OpIneg Opcode = 0x74
	OpIinc Opcode = 0x84 // u1 slot, s1 delta
	OpLcmp Opcode = 0x94

	OpIfeq     Opcode = 0x99 // u2 target
	OpIfne     Opcode = 0x9a
	OpIflt     Opcode = 0x9b
	OpIfge     Opcode = 0x9c
	OpIfgt     Opcode = 0x9d
	OpIfle     Opcode = 0x9e
	OpIfIcmpeq Opcode = 0x9f
	OpIfIcmpne Opcode = 0xa0
	OpIfIcmplt Opcode = 0xa1
	OpIfIcmpge Opcode = 0xa2
	OpIfIcmpgt Opcode = 0xa3
	OpIfIcmple Opcode = 0xa4
	OpGoto     Opcode = 0xa7

	OpIreturn      Opcode = 0xac
	OpReturn       Opcode = 0xb1
	OpInvokestatic Opcode = 0xb8 // u2 function constant
)

// JumpLen is the size of every jump instruction.
const JumpLen = 3

type opInfo struct {
	name     string
	operands int
	jump     bool
	pop      int // values consumed; calls are handled separately
	push     int
}

var opTable = [256]opInfo{
	OpNop:          {name: "nop"},
	OpIconst0:      {name: "iconst_0", push: 1},
	OpIconst1:      {name: "iconst_1", push: 1},
	OpIconst2:      {name: "iconst_2", push: 1},
	OpIconst3:      {name: "iconst_3", push: 1},
	OpIconst4:      {name: "iconst_4", push: 1},
	OpIconst5:      {name: "iconst_5", push: 1},
	OpBipush:       {name: "bipush", operands: 1, push: 1},
	OpSipush:       {name: "sipush", operands: 2, push: 1},
	OpLdc:          {name: "ldc", operands: 2, push: 1},
	OpSldc:         {name: "sldc", operands: 2, push: 1},
	OpIload:        {name: "iload", operands: 1, push: 1},
	OpIload0:       {name: "iload_0", push: 1},
	OpIload1:       {name: "iload_1", push: 1},
	OpIload2:       {name: "iload_2", push: 1},
	OpIload3:       {name: "iload_3", push: 1},
	OpIstore:       {name: "istore", operands: 1, pop: 1},
	OpIstore0:      {name: "istore_0", pop: 1},
	OpIstore1:      {name: "istore_1", pop: 1},
	OpIstore2:      {name: "istore_2", pop: 1},
	OpIstore3:      {name: "istore_3", pop: 1},
	OpPop:          {name: "pop", pop: 1},
	OpDup:          {name: "dup", pop: 1, push: 2},
	OpIadd:         {name: "iadd", pop: 2, push: 1},
	OpSadd:         {name: "sadd", pop: 2, push: 1},
	OpIsub:         {name: "isub", pop: 2, push: 1},
	OpImul:         {name: "imul", pop: 2, push: 1},
	OpIdiv:         {name: "idiv", pop: 2, push: 1},
	OpIrem:         {name: "irem", pop: 2, push: 1},
	OpIneg:         {name: "ineg", pop: 1, push: 1},
	OpIinc:         {name: "iinc", operands: 2},
	OpLcmp:         {name: "lcmp", pop: 2, push: 1},
	OpIfeq:         {name: "ifeq", operands: 2, jump: true, pop: 1},
	OpIfne:         {name: "ifne", operands: 2, jump: true, pop: 1},
	OpIflt:         {name: "iflt", operands: 2, jump: true, pop: 1},
	OpIfge:         {name: "ifge", operands: 2, jump: true, pop: 1},
	OpIfgt:         {name: "ifgt", operands: 2, jump: true, pop: 1},
	OpIfle:         {name: "ifle", operands: 2, jump: true, pop: 1},
	OpIfIcmpeq:     {name: "if_icmpeq", operands: 2, jump: true, pop: 2},
	OpIfIcmpne:     {name: "if_icmpne", operands: 2, jump: true, pop: 2},
	OpIfIcmplt:     {name: "if_icmplt", operands: 2, jump: true, pop: 2},
	OpIfIcmpge:     {name: "if_icmpge", operands: 2, jump: true, pop: 2},
	OpIfIcmpgt:     {name: "if_icmpgt", operands: 2, jump: true, pop: 2},
	OpIfIcmple:     {name: "if_icmple", operands: 2, jump: true, pop: 2},
	OpGoto:         {name: "goto", operands: 2, jump: true},
	OpIreturn:      {name: "ireturn", pop: 1},
	OpReturn:       {name: "return"},
	OpInvokestatic: {name: "invokestatic", operands: 2},
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool { return opTable[op].name != "" }

func (op Opcode) String() string {
	if info := opTable[op]; info.name != "" {
		return info.name
	}
	return fmt.Sprintf("op(0x%02x)", byte(op))
}

// Len is the encoded size including operands.
func (op Opcode) Len() int { return 1 + opTable[op].operands }

// IsJump reports conditional and unconditional branches.
func (op Opcode) IsJump() bool { return opTable[op].jump }

// Negate returns the branch taken exactly when op is not.
func (op Opcode) Negate() Opcode {
	switch op {
	case OpIfeq:
		return OpIfne
	case OpIfne:
		return OpIfeq
	case OpIflt:
		return OpIfge
	case OpIfge:
		return OpIflt
	case OpIfgt:
		return OpIfle
	case OpIfle:
		return OpIfgt
	case OpIfIcmpeq:
		return OpIfIcmpne
	case OpIfIcmpne:
		return OpIfIcmpeq
	case OpIfIcmplt:
		return OpIfIcmpge
	case OpIfIcmpge:
		return OpIfIcmplt
	case OpIfIcmpgt:
		return OpIfIcmple
	case OpIfIcmple:
		return OpIfIcmpgt
	}
	return op
}
