package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// IsValid reports whether the ID refers to an interned type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindError is the recovery poison: the type a failed resolution
	// produces so that analysis can continue.
	KindError
	KindUnit
	KindBool
	KindString
	KindInt
	KindUint
	KindFloat
	// KindReference is &T / &mut T.
	KindReference
	// KindArray is T[].
	KindArray
	// KindSelf is the abstract Self placeholder used in contract
	// signatures before an implementing type is known.
	KindSelf
	// KindNamed is an unresolved written reference: a name plus written
	// type arguments, exactly as it appeared in source.
	KindNamed
	// KindStruct covers both struct declarations and their generic
	// instantiations (payload side table distinguishes them).
	KindStruct
	// KindAlias is a nominal alias declaration.
	KindAlias
	// KindGenericParam is a type parameter bound by a declaration.
	KindGenericParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindError:
		return "error"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindReference:
		return "reference"
	case KindArray:
		return "array"
	case KindSelf:
		return "Self"
	case KindNamed:
		return "named"
	case KindStruct:
		return "struct"
	case KindAlias:
		return "alias"
	case KindGenericParam:
		return "type param"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type is a compact descriptor for any supported type. Kinds with metadata
// (struct, alias, named, generic param) point into a payload side table.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Width   Width  // for numeric primitives
	Mutable bool   // for references
	Payload uint32 // side-table slot for nominal kinds
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width (WidthAny for "int").
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable}
}

// MakeArray describes T[].
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}
