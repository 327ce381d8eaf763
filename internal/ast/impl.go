package ast

import "skarn/internal/source"

// ImplItem is an implementation block: `impl Target { ... }` for inherent
// methods, or `impl Contract for Target { ... }`.
type ImplItem struct {
	Contract   TypeID // NoTypeID for inherent impls
	Target     TypeID
	TargetSpan source.Span
	Fns        []ItemID
	Span       source.Span
}

func (i *Items) Impl(id ItemID) (*ImplItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemImpl {
		return nil, false
	}
	return i.Impls.Get(uint32(item.Payload)), true
}

func (i *Items) NewImpl(im ImplItem) ItemID {
	payload := PayloadID(i.Impls.Allocate(im))
	return i.New(ItemImpl, im.Span, payload)
}
