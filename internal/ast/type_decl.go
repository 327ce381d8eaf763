package ast

import "skarn/internal/source"

type TypeDeclKind uint8

const (
	// TypeDeclStruct is `type Name { field: T, ... }`.
	TypeDeclStruct TypeDeclKind = iota
	// TypeDeclAlias is `type Name = T;`.
	TypeDeclAlias
	// TypeDeclOpaque is `type Name;` (declared, no body yet).
	TypeDeclOpaque
)

type Field struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
	Span     source.Span
}

type TypeDeclItem struct {
	Kind       TypeDeclKind
	Name       source.StringID
	NameSpan   source.Span
	IsPub      bool
	TypeParams []TypeParamID
	Fields     []FieldID // struct
	Alias      TypeID    // alias target
	Span       source.Span
}

func (i *Items) TypeDecl(id ItemID) (*TypeDeclItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemType {
		return nil, false
	}
	return i.TypeDecls.Get(uint32(item.Payload)), true
}

func (i *Items) NewTypeDecl(decl TypeDeclItem) ItemID {
	payload := PayloadID(i.TypeDecls.Allocate(decl))
	return i.New(ItemType, decl.Span, payload)
}

func (i *Items) NewField(f Field) FieldID {
	return FieldID(i.Fields.Allocate(f))
}

func (i *Items) Field(id FieldID) *Field {
	return i.Fields.Get(uint32(id))
}
