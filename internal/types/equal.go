package types

// EqualTypes reports whether two TypeIDs describe the same type when
// compared through the handles, not by handle numbers. Nominal kinds
// compare by declaration identity; composites compare structurally.
func (in *Interner) EqualTypes(a, b TypeID) bool {
	if a == b {
		return true
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.equalLocked(a, b)
}

func (in *Interner) equalLocked(a, b TypeID) bool {
	if a == b {
		return true
	}
	ta, okA := in.lookupLocked(a)
	tb, okB := in.lookupLocked(b)
	if !okA || !okB || ta.Kind != tb.Kind {
		return false
	}

	switch ta.Kind {
	case KindError, KindUnit, KindBool, KindString, KindSelf:
		return true

	case KindInt, KindUint, KindFloat:
		return ta.Width == tb.Width

	case KindReference:
		return ta.Mutable == tb.Mutable && in.equalLocked(ta.Elem, tb.Elem)

	case KindArray:
		return in.equalLocked(ta.Elem, tb.Elem)

	case KindNamed:
		ia, ib := in.namedInfoLocked(a), in.namedInfoLocked(b)
		if ia == nil || ib == nil || ia.Name != ib.Name || len(ia.Args) != len(ib.Args) {
			return false
		}
		for i := range ia.Args {
			if !in.equalLocked(ia.Args[i], ib.Args[i]) {
				return false
			}
		}
		return true

	case KindStruct:
		ia, ib := in.structInfoLocked(a), in.structInfoLocked(b)
		if ia == nil || ib == nil {
			return false
		}
		if ia.IsInstance() != ib.IsInstance() {
			return false
		}
		if !ia.IsInstance() {
			// Declarations are nominal: same name from the same spot.
			return ia.Name == ib.Name && ia.Decl == ib.Decl
		}
		if !in.equalLocked(ia.DeclOf, ib.DeclOf) || len(ia.Args) != len(ib.Args) {
			return false
		}
		for i := range ia.Args {
			if !in.equalLocked(ia.Args[i], ib.Args[i]) {
				return false
			}
		}
		return true

	case KindAlias:
		ia, ib := in.aliasInfoLocked(a), in.aliasInfoLocked(b)
		if ia == nil || ib == nil {
			return false
		}
		return ia.Name == ib.Name && in.equalLocked(ia.Target, ib.Target)

	case KindGenericParam:
		ia, ib := in.typeParamInfoLocked(a), in.typeParamInfoLocked(b)
		if ia == nil || ib == nil {
			return false
		}
		return ia.Owner == ib.Owner && ia.Index == ib.Index && ia.Name == ib.Name

	default:
		return false
	}
}
