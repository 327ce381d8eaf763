package ast

import (
	"skarn/internal/source"
)

type TypeExprKind uint8

const (
	// TypeExprPath is a (possibly generic) name: `Point`, `Vec<T>`.
	TypeExprPath TypeExprKind = iota
	// TypeExprRef is `&T` or `&mut T`.
	TypeExprRef
	// TypeExprArray is `T[]`.
	TypeExprArray
	// TypeExprSelf is the written `Self`.
	TypeExprSelf
)

// TypeExpr is written type syntax. Fields are populated per kind: Name/Args
// for paths, Elem/Mutable for references, Elem for arrays.
type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Name    source.StringID
	Args    []TypeID
	Elem    TypeID
	Mutable bool
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

func (t *TypeExprs) New(te TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(te))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
