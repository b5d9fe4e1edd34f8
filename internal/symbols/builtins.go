package symbols

import (
	"playscript/internal/ast"
	"playscript/internal/source"
	"playscript/internal/types"
)

type intrinsic struct {
	name   string
	params []func(types.Builtins) types.TypeID
	result func(types.Builtins) types.TypeID
}

func tString(b types.Builtins) types.TypeID  { return b.String }
func tInteger(b types.Builtins) types.TypeID { return b.Integer }
func tVoid(b types.Builtins) types.TypeID    { return b.Void }

// intrinsics are executed by the VM by name. Their order fixes the first
// constant-pool slots of every module.
var intrinsics = []intrinsic{
	{name: "println", params: []func(types.Builtins) types.TypeID{tString}, result: tVoid},
	{name: "tick", result: tInteger},
	{name: "integer_to_string", params: []func(types.Builtins) types.TypeID{tInteger}, result: tString},
}

// IntrinsicNames lists the intrinsics in constant-pool order.
func IntrinsicNames() []string {
	names := make([]string, len(intrinsics))
	for i, in := range intrinsics {
		names[i] = in.name
	}
	return names
}

func (t *Table) installBuiltins() {
	b := t.Types.Builtins()
	for _, in := range intrinsics {
		params := make([]types.TypeID, len(in.params))
		for i, p := range in.params {
			params[i] = p(b)
		}
		fnType := t.Types.NewFn(params, in.result(b))
		id := t.NewFunction(in.name, fnType, source.Span{}, ast.NoStmtID)
		sym := t.Symbols.Get(id)
		sym.Flags |= SymbolFlagBuiltin
		sym.Fn.Params = len(params)
		for i, p := range params {
			v := t.Symbols.New(&Symbol{
				Name:  string(rune('a' + i)),
				Kind:  SymbolVariable,
				Flags: SymbolFlagBuiltin | SymbolFlagParam,
				Type:  p,
			})
			t.AddLocal(id, v)
		}
		t.Builtins = append(t.Builtins, id)
		t.builtinByName[in.name] = id
	}
}
