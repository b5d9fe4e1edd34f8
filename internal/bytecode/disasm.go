package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a listing of the constant pool and every function body.
func Disassemble(w io.Writer, m *Module) error {
	p := printer{w: w}
	p.printf("constants: %d, entry: #%d\n", len(m.Consts), m.Entry)
	for i, c := range m.Consts {
		p.printf("  #%-3d %-8s %s\n", i, c.Kind, c)
	}
	for i, c := range m.Consts {
		if c.Kind != ConstFunction || c.Func == nil || c.Func.Intrinsic {
			continue
		}
		fn := c.Func
		p.printf("\nfunction #%d %s %s\n", i, fn.Name, m.Types.Display(fn.Type))
		p.printf("  max stack %d, locals %d\n", fn.MaxStack, len(fn.Locals))
		for slot, l := range fn.Locals {
			p.printf("  local %d %s %s\n", slot, l.Name, m.Types.Display(l.Type))
		}
		p.code(m, fn.Code)
	}
	return p.err
}

// DisassembleCode writes the listing of one body.
func DisassembleCode(w io.Writer, m *Module, code []byte) error {
	p := printer{w: w}
	p.code(m, code)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) code(m *Module, code []byte) {
	for pc := 0; pc < len(code); {
		in, err := Decode(code, pc)
		if err != nil {
			p.printf("  %04d  <%v>\n", pc, err)
			return
		}
		p.printf("  %04d  %s\n", pc, Format(m, in))
		pc = in.Next()
	}
}

// Format renders one instruction with its operands resolved against m.
func Format(m *Module, in Instr) string {
	switch {
	case in.Op == OpIinc:
		return fmt.Sprintf("%s %d %d", in.Op, in.A, in.B)
	case in.Op.IsJump():
		return fmt.Sprintf("%s -> %04d", in.Op, in.A)
	case in.Op == OpLdc || in.Op == OpSldc || in.Op == OpInvokestatic:
		if m != nil && in.A < len(m.Consts) {
			return fmt.Sprintf("%s #%d ; %s", in.Op, in.A, m.Consts[in.A])
		}
		return fmt.Sprintf("%s #%d", in.Op, in.A)
	case in.Op.Len() > 1:
		return fmt.Sprintf("%s %d", in.Op, in.A)
	}
	return in.Op.String()
}
