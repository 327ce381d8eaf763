package ast

import (
	"skarn/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemType
	ItemContract
	ItemImpl
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type Items struct {
	Arena      *Arena[Item]
	Fns        *Arena[FnItem]
	FnParams   *Arena[FnParam]
	TypeDecls  *Arena[TypeDeclItem]
	Fields     *Arena[Field]
	Contracts  *Arena[ContractItem]
	Impls      *Arena[ImplItem]
	TypeParams *Arena[TypeParam]
}

// NewItems creates an *Items with per-kind arenas initialized to capHint.
// If capHint is 0, a default initial capacity of 1<<8 is used.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Items{
		Arena:      NewArena[Item](capHint),
		Fns:        NewArena[FnItem](capHint),
		FnParams:   NewArena[FnParam](capHint),
		TypeDecls:  NewArena[TypeDeclItem](capHint),
		Fields:     NewArena[Field](capHint),
		Contracts:  NewArena[ContractItem](capHint),
		Impls:      NewArena[ImplItem](capHint),
		TypeParams: NewArena[TypeParam](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payloadID PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payloadID,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}
