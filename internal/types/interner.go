package types

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for types seeded at interner construction.
type Builtins struct {
	Invalid TypeID
	Error   TypeID
	Unit    TypeID
	Bool    TypeID
	String  TypeID
	Int     TypeID
	Uint    TypeID
	Float   TypeID
	// SelfType is the shared abstract Self placeholder.
	SelfType TypeID
}

// Interner provides stable TypeIDs for structural descriptors: interning the
// same descriptor twice yields the same ID, and IDs are assigned in insertion
// order, so an identical insertion sequence reproduces identical IDs.
//
// Safe for concurrent use. The check driver shares one interner across
// per-file workers, so every mutation happens under the lock.
type Interner struct {
	mu       sync.RWMutex
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	structs []StructInfo
	aliases []AliasInfo
	named   []NamedInfo
	params  []TypeParamInfo

	namedIndex map[uint64][]TypeID // name -> candidate named refs
	instIndex  map[TypeID][]TypeID // struct decl -> instantiations
	paramIndex map[typeParamKey]TypeID
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Width   Width
	Mutable bool
	Payload uint32
}

type typeParamKey struct {
	Owner uint32
	Index uint32
}

// NewInterner constructs an interner seeded with built-in types.
// Slot 0 of every table is a reserved invalid sentinel.
func NewInterner() *Interner {
	in := &Interner{
		index:      make(map[typeKey]TypeID, 64),
		structs:    []StructInfo{{}},
		aliases:    []AliasInfo{{}},
		named:      []NamedInfo{{}},
		params:     []TypeParamInfo{{}},
		namedIndex: make(map[uint64][]TypeID),
		instIndex:  make(map[TypeID][]TypeID),
		paramIndex: make(map[typeParamKey]TypeID),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid}) // occupies NoTypeID
	in.builtins.Error = in.internRaw(Type{Kind: KindError})
	in.builtins.Unit = in.internRaw(Type{Kind: KindUnit})
	in.builtins.Bool = in.internRaw(Type{Kind: KindBool})
	in.builtins.String = in.internRaw(Type{Kind: KindString})
	in.builtins.Int = in.internRaw(MakeInt(WidthAny))
	in.builtins.Uint = in.internRaw(MakeUint(WidthAny))
	in.builtins.Float = in.internRaw(MakeFloat(WidthAny))
	in.builtins.SelfType = in.internRaw(Type{Kind: KindSelf})
	return in
}

// Builtins returns TypeIDs seeded at construction.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
// KindInvalid never gets a real ID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey{t.Kind, t.Elem, t.Width, t.Mutable, t.Payload}
	in.mu.RLock()
	id, ok := in.index[key]
	in.mu.RUnlock()
	if ok {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw appends the descriptor without consulting the dedup map.
// Callers must hold the write lock (construction-time calls are exempt).
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey{t.Kind, t.Elem, t.Width, t.Mutable, t.Payload}] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.lookupLocked(id)
}

func (in *Interner) lookupLocked(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports the number of interned types including the reserved slot.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.types)
}

// IsError reports whether id is the recovery poison or invalid.
func (in *Interner) IsError(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return !ok || tt.Kind == KindError
}
