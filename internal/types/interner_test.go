package types

import (
	"sync"
	"testing"

	"skarn/internal/source"
)

func TestInternerDeterminism(t *testing.T) {
	build := func() (*Interner, []TypeID) {
		in := NewInterner()
		var ids []TypeID
		ids = append(ids, in.Intern(MakeUint(Width64)))
		ids = append(ids, in.Intern(MakeReference(in.Builtins().Uint, true)))
		ids = append(ids, in.Intern(MakeArray(in.Builtins().Bool)))
		ids = append(ids, in.Intern(MakeUint(Width64))) // repeat
		return in, ids
	}

	_, first := build()
	_, second := build()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("insertion sequence produced different IDs at %d: %d vs %d",
				i, first[i], second[i])
		}
	}
	if first[0] != first[3] {
		t.Fatalf("interning the same descriptor twice gave %d then %d", first[0], first[3])
	}
}

func TestInternerBuiltinsSeeded(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	if b.Invalid != NoTypeID {
		t.Fatalf("Invalid = %d, want NoTypeID", b.Invalid)
	}
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatalf("Lookup(NoTypeID) succeeded")
	}
	if got := in.MustLookup(b.Error).Kind; got != KindError {
		t.Fatalf("Error builtin kind = %v", got)
	}
	if got := in.MustLookup(b.SelfType).Kind; got != KindSelf {
		t.Fatalf("SelfType builtin kind = %v", got)
	}
	if in.Intern(Type{Kind: KindSelf}) != b.SelfType {
		t.Fatalf("re-interning Self placeholder did not dedup")
	}
	if in.Intern(Type{Kind: KindInvalid}) != NoTypeID {
		t.Fatalf("KindInvalid got a real TypeID")
	}
}

func TestInternNamedDedup(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	vec := names.Intern("Vec")
	u64 := in.Intern(MakeUint(Width64))
	u32 := in.Intern(MakeUint(Width32))

	a := in.InternNamed(vec, []TypeID{u64})
	b := in.InternNamed(vec, []TypeID{u64})
	c := in.InternNamed(vec, []TypeID{u32})
	d := in.InternNamed(vec, nil)

	if a != b {
		t.Fatalf("identical named refs interned twice: %d vs %d", a, b)
	}
	if a == c || a == d || c == d {
		t.Fatalf("distinct named refs collapsed: %d %d %d", a, c, d)
	}

	info, ok := in.NamedInfo(a)
	if !ok || info.Name != vec || len(info.Args) != 1 || info.Args[0] != u64 {
		t.Fatalf("NamedInfo = %+v, ok=%v", info, ok)
	}
}

func TestStructInstantiation(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	point := names.Intern("Point")
	tParam := in.RegisterTypeParam(names.Intern("T"), 7, 0)

	decl := in.RegisterStruct(point, source.Span{File: 1, Start: 0, End: 5}, []TypeID{tParam})
	u32 := in.Intern(MakeUint(Width32))

	inst1 := in.InstantiateStruct(decl, []TypeID{u32})
	inst2 := in.InstantiateStruct(decl, []TypeID{u32})
	if inst1 != inst2 {
		t.Fatalf("same instantiation interned twice: %d vs %d", inst1, inst2)
	}
	if inst1 == decl {
		t.Fatalf("instantiation reused declaration ID")
	}

	info, ok := in.StructInfo(inst1)
	if !ok || !info.IsInstance() || info.DeclOf != decl {
		t.Fatalf("instance info = %+v, ok=%v", info, ok)
	}
	if len(info.Args) != 1 || info.Args[0] != u32 {
		t.Fatalf("instance args = %v", info.Args)
	}

	declInfo, ok := in.StructInfo(decl)
	if !ok || declInfo.IsInstance() || len(declInfo.TypeParams) != 1 {
		t.Fatalf("decl info = %+v, ok=%v", declInfo, ok)
	}
}

func TestEqualTypesThroughHandles(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()

	u64a := in.Intern(MakeUint(Width64))
	u64b := in.Intern(MakeUint(Width64))
	refMut := in.Intern(MakeReference(u64a, true))
	refShared := in.Intern(MakeReference(u64a, false))

	if !in.EqualTypes(u64a, u64b) {
		t.Fatalf("uint64 not equal to itself after dedup")
	}
	if in.EqualTypes(refMut, refShared) {
		t.Fatalf("&mut uint64 equal to &uint64")
	}

	// Nominal: same name, different declarations are different types.
	name := names.Intern("Pair")
	d1 := in.RegisterStruct(name, source.Span{File: 1, Start: 0, End: 4}, nil)
	d2 := in.RegisterStruct(name, source.Span{File: 2, Start: 0, End: 4}, nil)
	if in.EqualTypes(d1, d2) {
		t.Fatalf("distinct struct declarations compare equal")
	}
}

func TestAliasTarget(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	id := in.RegisterAlias(names.Intern("Bytes"), source.Span{File: 1})
	if _, ok := in.AliasTarget(id); ok {
		t.Fatalf("unset alias target resolved")
	}
	arr := in.Intern(MakeArray(in.Intern(MakeUint(Width8))))
	in.SetAliasTarget(id, arr)
	got, ok := in.AliasTarget(id)
	if !ok || got != arr {
		t.Fatalf("AliasTarget = (%d, %v), want (%d, true)", got, ok, arr)
	}
}

func TestTypeString(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	vec := names.Intern("Vec")
	u64 := in.Intern(MakeUint(Width64))

	tests := []struct {
		id   TypeID
		want string
	}{
		{in.Builtins().Error, "{error}"},
		{in.Builtins().SelfType, "Self"},
		{u64, "uint64"},
		{in.Builtins().Int, "int"},
		{in.Intern(MakeReference(u64, true)), "&mut uint64"},
		{in.Intern(MakeArray(u64)), "uint64[]"},
		{in.InternNamed(vec, []TypeID{u64}), "Vec<uint64>"},
	}
	for _, tt := range tests {
		if got := in.TypeString(tt.id, names); got != tt.want {
			t.Errorf("TypeString(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestFingerprintAgreesWithEqual(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()

	u64a := in.Intern(MakeUint(Width64))
	u64b := in.Intern(MakeUint(Width64))
	if in.Fingerprint(u64a) != in.Fingerprint(u64b) {
		t.Fatalf("equal handles produced different fingerprints")
	}

	// Nominal identity flows into the fingerprint: same name, different
	// declarations must not collide with each other's instances.
	name := names.Intern("Pair")
	d1 := in.RegisterStruct(name, source.Span{File: 1, Start: 0, End: 4}, nil)
	d2 := in.RegisterStruct(name, source.Span{File: 2, Start: 0, End: 4}, nil)
	if in.Fingerprint(d1) == in.Fingerprint(d2) {
		t.Fatalf("distinct declarations share a fingerprint")
	}

	tParam := in.RegisterTypeParam(names.Intern("T"), 3, 0)
	box := in.RegisterStruct(names.Intern("Box"), source.Span{File: 1, Start: 10, End: 13}, []TypeID{tParam})
	inst1 := in.InstantiateStruct(box, []TypeID{u64a})
	inst2 := in.InstantiateStruct(box, []TypeID{u64b})
	if !in.EqualTypes(inst1, inst2) {
		t.Fatalf("identical instantiations not equal")
	}
	if in.Fingerprint(inst1) != in.Fingerprint(inst2) {
		t.Fatalf("equal instantiations fingerprint differently")
	}

	refMut := in.Intern(MakeReference(u64a, true))
	refShared := in.Intern(MakeReference(u64a, false))
	if in.Fingerprint(refMut) == in.Fingerprint(refShared) {
		t.Fatalf("mutability ignored by the fingerprint")
	}
}

func TestInternerConcurrentInsertOrGet(t *testing.T) {
	in := NewInterner()
	u64 := in.Intern(MakeUint(Width64))

	var wg sync.WaitGroup
	got := make([]TypeID, 16)
	for g := range got {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			// Все горутины должны сойтись на одном ID.
			got[g] = in.Intern(MakeReference(u64, g%2 == 0))
		}(g)
	}
	wg.Wait()

	var mutable, shared TypeID
	for g, id := range got {
		if g%2 == 0 {
			if mutable == NoTypeID {
				mutable = id
			} else if id != mutable {
				t.Fatalf("concurrent interning split &mut uint64: %d vs %d", id, mutable)
			}
		} else {
			if shared == NoTypeID {
				shared = id
			} else if id != shared {
				t.Fatalf("concurrent interning split &uint64: %d vs %d", id, shared)
			}
		}
	}
	if mutable == shared {
		t.Fatalf("&mut and & collapsed under concurrency")
	}
}
