package bytecode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"playscript/internal/types"
)

func TestDecodeOperands(t *testing.T) {
	code := []byte{
		byte(OpBipush), 0xfe,
		byte(OpSipush), 0x80, 0x00,
		byte(OpIinc), 2, 0xff,
		byte(OpGoto), 0x01, 0x02,
	}
	ins, err := Instructions(code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Instr{
		{Op: OpBipush, Offset: 0, A: -2},
		{Op: OpSipush, Offset: 2, A: -32768},
		{Op: OpIinc, Offset: 5, A: 2, B: -1},
		{Op: OpGoto, Offset: 8, A: 0x0102},
	}
	if len(ins) != len(want) {
		t.Fatalf("got %d instructions", len(ins))
	}
	for i := range want {
		if ins[i] != want[i] {
			t.Fatalf("instr %d = %+v, want %+v", i, ins[i], want[i])
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte{0xff}, 0); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected unknown opcode, got %v", err)
	}
	if _, err := Decode([]byte{byte(OpGoto), 0}, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestRelocateOnlyTouchesJumps(t *testing.T) {
	code := []byte{
		byte(OpSipush), 0x00, 0x05,
		byte(OpIfeq), 0x00, 0x09,
		byte(OpLdc), 0x00, 0x01,
		byte(OpGoto), 0x00, 0x00,
	}
	if err := Relocate(code, 10); err != nil {
		t.Fatalf("relocate: %v", err)
	}
	ins, _ := Instructions(code)
	if ins[0].A != 5 || ins[2].A != 1 {
		t.Fatalf("non-jump operands changed: %+v", ins)
	}
	if ins[1].A != 19 || ins[3].A != 10 {
		t.Fatalf("jump targets = %d, %d", ins[1].A, ins[3].A)
	}
	if err := Relocate(code, 70000); !errors.Is(err, ErrJumpRange) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestNegate(t *testing.T) {
	for op := range 256 {
		o := Opcode(op)
		if !o.IsJump() || o == OpGoto {
			continue
		}
		if o.Negate() == o || o.Negate().Negate() != o {
			t.Fatalf("%s does not negate cleanly", o)
		}
	}
}

func TestMaxStack(t *testing.T) {
	code := []byte{
		byte(OpIconst1),
		byte(OpIconst2),
		byte(OpIadd),
		byte(OpIconst3),
		byte(OpInvokestatic), 0x00, 0x00,
		byte(OpPop),
	}
	got, err := MaxStack(code, func(int) int { return -1 })
	if err != nil || got != 2 {
		t.Fatalf("MaxStack = %d, %v", got, err)
	}
}

func sampleModule() *Module {
	in := types.NewInterner()
	b := in.Builtins()
	m := NewModule(in)
	printFn := in.NewFn([]types.TypeID{b.String}, b.Void)
	m.Add(Constant{Kind: ConstFunction, Func: &Function{Name: "println", Type: printFn, Intrinsic: true, Locals: []Local{{Name: "a", Type: b.String}}}})
	u := in.NewUnion(b.String, b.Null)
	mainFn := in.NewFn(nil, b.Any)
	helper := in.NewFn([]types.TypeID{u}, b.Integer)
	m.Entry = m.Add(Constant{Kind: ConstFunction, Func: &Function{
		Name:     "main",
		Type:     mainFn,
		MaxStack: 1,
		Code:     []byte{byte(OpSldc), 0x00, 0x03, byte(OpInvokestatic), 0x00, 0x00, byte(OpReturn)},
	}})
	m.Add(Constant{Kind: ConstFunction, Func: &Function{
		Name:   "helper",
		Type:   helper,
		Locals: []Local{{Name: "v", Type: u}},
		Code:   []byte{byte(OpLdc), 0x00, 0x04, byte(OpIreturn)},
	}})
	m.Add(Constant{Kind: ConstString, Str: "héllo"})
	m.Add(Constant{Kind: ConstInteger, Int: -1 << 40})
	m.Add(Constant{Kind: ConstDecimal, Decimal: 2.5})
	return m
}

func TestWireRoundTrip(t *testing.T) {
	m := sampleModule()
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeModule(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Entry != m.Entry {
		t.Fatalf("entry = %d, want %d", got.Entry, m.Entry)
	}
	if len(got.Consts) != len(m.Consts) {
		t.Fatalf("consts = %d, want %d", len(got.Consts), len(m.Consts))
	}
	for i, c := range m.Consts {
		g := got.Consts[i]
		if g.Kind != c.Kind || g.String() != c.String() {
			t.Fatalf("const %d = %s, want %s", i, g, c)
		}
		if c.Kind != ConstFunction {
			continue
		}
		if g.Func.Intrinsic != c.Func.Intrinsic || !bytes.Equal(g.Func.Code, c.Func.Code) || g.Func.MaxStack != c.Func.MaxStack {
			t.Fatalf("function %s differs: %+v", c.Func.Name, g.Func)
		}
		if got.Types.Display(g.Func.Type) != m.Types.Display(c.Func.Type) {
			t.Fatalf("type of %s = %s, want %s", c.Func.Name, got.Types.Display(g.Func.Type), m.Types.Display(c.Func.Type))
		}
		for j, l := range c.Func.Locals {
			if g.Func.Locals[j].Name != l.Name || got.Types.Display(g.Func.Locals[j].Type) != m.Types.Display(l.Type) {
				t.Fatalf("local %d of %s differs", j, c.Func.Name)
			}
		}
	}
	again, err := Encode(got)
	if err != nil || !bytes.Equal(again, data) {
		t.Fatalf("re-encoding is not stable: %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	data, err := Encode(sampleModule())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cases := map[string][]byte{
		"empty":     nil,
		"bad tag":   append([]byte{5}, "typez"...),
		"truncated": data[:len(data)-2],
		"trailing":  append(append([]byte{}, data...), 0),
	}
	for name, in := range cases {
		if _, err := DecodeModule(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestDisassemble(t *testing.T) {
	var buf bytes.Buffer
	if err := Disassemble(&buf, sampleModule()); err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"function #1 main () => any",
		`0000  sldc #3 ; "héllo"`,
		"0003  invokestatic #0 ; function println",
		"local 0 v string | null",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("listing missing %q:\n%s", want, out)
		}
	}
}
