package ast

import "skarn/internal/source"

// TypeParam represents a generic type parameter.
type TypeParam struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
}

func (i *Items) NewTypeParam(p TypeParam) TypeParamID {
	return TypeParamID(i.TypeParams.Allocate(p))
}

func (i *Items) TypeParam(id TypeParamID) *TypeParam {
	return i.TypeParams.Get(uint32(id))
}
