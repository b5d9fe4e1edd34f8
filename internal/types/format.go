package types

import "strings"

// Display renders a type for diagnostics: simple names as is, functions as
// "(p1, p2) => r", unions as "a | b".
func (in *Interner) Display(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindFn:
		info := in.fns[tt.Payload]
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = in.Display(p)
		}
		return "(" + strings.Join(parts, ", ") + ") => " + in.Display(info.Result)
	case KindUnion:
		info := in.unions[tt.Payload]
		parts := make([]string, len(info.Members))
		for i, m := range info.Members {
			parts[i] = in.Display(m)
		}
		return strings.Join(parts, " | ")
	}
	return in.Name(id)
}
