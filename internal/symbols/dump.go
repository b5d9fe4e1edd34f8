package symbols

import (
	"fmt"
	"io"
	"strings"
)

type dumper struct {
	BaseVisitor
	t   *Table
	w   io.Writer
	err error
}

// Dump writes the scope tree with symbol kinds, types and frame slots.
func (t *Table) Dump(w io.Writer) error {
	d := &dumper{t: t, w: w}
	t.Walk(t.Root, d)
	return d.err
}

func (d *dumper) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s"+format+"\n", append([]any{strings.Repeat("  ", depth)}, args...)...)
}

func (d *dumper) EnterScope(id ScopeID, scope *Scope, depth int) {
	owner := ""
	if fn := d.t.Symbols.Get(scope.Func); fn != nil {
		owner = " fn=" + fn.Name
	}
	d.printf(depth, "scope#%d %s%s", id, scope.Kind, owner)
}

func (d *dumper) VisitSymbol(id SymbolID, sym *Symbol, depth int) {
	line := fmt.Sprintf("%s: %s %s", sym.Name, sym.Kind, d.t.Types.Display(sym.Type))
	if sym.Kind == SymbolVariable {
		if slot, ok := d.t.SlotOf(sym.Owner, id); ok {
			line += fmt.Sprintf(" slot=%d", slot)
		}
	} else if sym.Fn != nil {
		line += fmt.Sprintf(" locals=%d", len(sym.Fn.Locals))
	}
	if flags := sym.Flags.Strings(); len(flags) > 0 {
		line += " [" + strings.Join(flags, ",") + "]"
	}
	d.printf(depth, "%s", line)
}
