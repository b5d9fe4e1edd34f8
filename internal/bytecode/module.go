package bytecode

import (
	"fmt"
	"slices"
	"strconv"

	"playscript/internal/types"
)

// ConstKind is the persisted tag of a constant.
type ConstKind uint8

const (
	ConstInteger  ConstKind = 1
	ConstString   ConstKind = 2
	ConstFunction ConstKind = 3
	ConstDecimal  ConstKind = 4
)

func (k ConstKind) String() string {
	switch k {
	case ConstInteger:
		return "integer"
	case ConstString:
		return "string"
	case ConstFunction:
		return "function"
	case ConstDecimal:
		return "decimal"
	}
	return "ConstKind(" + strconv.Itoa(int(k)) + ")"
}

// Constant is one constant-pool slot.
type Constant struct {
	Kind    ConstKind
	Int     int64
	Decimal float64
	Str     string
	Func    *Function
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstInteger:
		return strconv.FormatInt(c.Int, 10)
	case ConstDecimal:
		return strconv.FormatFloat(c.Decimal, 'g', -1, 64)
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstFunction:
		if c.Func != nil {
			return "function " + c.Func.Name
		}
	}
	return "<invalid>"
}

// Local is one frame slot.
type Local struct {
	Name string
	Type types.TypeID
}

// intrinsicNames are the functions the VM runs by name, in the order they
// occupy the first constant-pool slots.
var intrinsicNames = []string{"println", "tick", "integer_to_string"}

// IntrinsicNames lists the intrinsics in constant-pool order.
func IntrinsicNames() []string {
	return slices.Clone(intrinsicNames)
}

// Function is a compiled function. Intrinsics have no code; the VM
// executes them by name.
type Function struct {
	Name      string
	Type      types.TypeID
	MaxStack  int
	Locals    []Local
	Code      []byte
	Intrinsic bool
}

// Module is the unit the VM executes. Types is the interner every TypeID
// in the module refers to.
type Module struct {
	Types  *types.Interner
	Consts []Constant
	Entry  int // constant index of the entry function
}

func NewModule(in *types.Interner) *Module {
	if in == nil {
		in = types.NewInterner()
	}
	return &Module{Types: in, Entry: -1}
}

// Add appends a constant and returns its index.
func (m *Module) Add(c Constant) int {
	m.Consts = append(m.Consts, c)
	return len(m.Consts) - 1
}

// Function returns the function stored at constant index i.
func (m *Module) Function(i int) (*Function, error) {
	if i < 0 || i >= len(m.Consts) || m.Consts[i].Kind != ConstFunction || m.Consts[i].Func == nil {
		return nil, fmt.Errorf("constant %d is not a function", i)
	}
	return m.Consts[i].Func, nil
}

// EntryFunction returns the function execution starts in.
func (m *Module) EntryFunction() (*Function, error) {
	return m.Function(m.Entry)
}

// Signature returns the parameter and result types of fn.
func (m *Module) Signature(fn *Function) (params []types.TypeID, result types.TypeID, ok bool) {
	info, ok := m.Types.FnInfo(fn.Type)
	if !ok {
		return nil, types.NoTypeID, false
	}
	return info.Params, info.Result, true
}

// ParamCount is the number of arguments fn takes off the caller's stack.
func (m *Module) ParamCount(fn *Function) int {
	params, _, _ := m.Signature(fn)
	return len(params)
}

// Returns reports whether a call to fn leaves a value on the stack.
func (m *Module) Returns(fn *Function) bool {
	_, result, ok := m.Signature(fn)
	return ok && result != m.Types.Builtins().Void
}

// CallEffect is the stack effect of invokestatic on constant i.
func (m *Module) CallEffect(i int) int {
	fn, err := m.Function(i)
	if err != nil {
		return 0
	}
	effect := -m.ParamCount(fn)
	if m.Returns(fn) {
		effect++
	}
	return effect
}
