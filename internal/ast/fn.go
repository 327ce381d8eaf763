package ast

import "skarn/internal/source"

// FnParam is one written parameter, modifiers and type exactly as typed.
type FnParam struct {
	Name     source.StringID
	NameSpan source.Span
	IsSelf   bool
	IsRef    bool
	IsMut    bool
	MutSpan  source.Span // set only when IsMut
	Type     TypeID      // NoTypeID for bare self receivers
	TypeSpan source.Span
	Span     source.Span
}

type FnItem struct {
	Name       source.StringID
	NameSpan   source.Span
	IsPub      bool
	TypeParams []TypeParamID
	Params     []FnParamID
	ReturnType TypeID
	HasBody    bool
	Span       source.Span
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) NewFn(fn FnItem) ItemID {
	payload := PayloadID(i.Fns.Allocate(fn))
	return i.New(ItemFn, fn.Span, payload)
}

func (i *Items) NewFnParam(p FnParam) FnParamID {
	return FnParamID(i.FnParams.Allocate(p))
}

func (i *Items) FnParam(id FnParamID) *FnParam {
	return i.FnParams.Get(uint32(id))
}
