package types

// Visitor is the dump hook for types. Embed BaseVisitor to get no-op
// defaults and override what you need.
type Visitor interface {
	VisitSimple(id TypeID, info *SimpleInfo)
	VisitFn(id TypeID, info *FnInfo)
	VisitUnion(id TypeID, info *UnionInfo)
}

type BaseVisitor struct{}

func (BaseVisitor) VisitSimple(TypeID, *SimpleInfo) {}
func (BaseVisitor) VisitFn(TypeID, *FnInfo)         {}
func (BaseVisitor) VisitUnion(TypeID, *UnionInfo)   {}

// Accept dispatches id to the matching Visit method.
func (in *Interner) Accept(id TypeID, v Visitor) {
	tt, ok := in.Lookup(id)
	if !ok {
		return
	}
	switch tt.Kind {
	case KindSimple:
		v.VisitSimple(id, &in.simples[tt.Payload])
	case KindFn:
		v.VisitFn(id, &in.fns[tt.Payload])
	case KindUnion:
		v.VisitUnion(id, &in.unions[tt.Payload])
	}
}

// Walk visits every type in allocation order.
func (in *Interner) Walk(v Visitor) {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		in.Accept(id, v)
	}
}
