package sema

import (
	"testing"
)

func TestParamEqualityAndHash(t *testing.T) {
	res, bag := checkSource(t, `
type Meters = uint64;

fn a(count: uint64) {}
fn b(count: Meters) {}
fn c(total: uint64) {}
`)
	mustNoErrors(t, bag)

	a := fnByName(t, res, "a").Params[0]
	b := fnByName(t, res, "b").Params[0]
	c := fnByName(t, res, "c").Params[0]

	// Equality looks through the alias: same name, same resolved type.
	// Spans and the written form differ and must not matter.
	if !a.Equal(b, res.Types) {
		t.Fatalf("parameters equal up to an alias must compare equal")
	}
	if a.Hash(res.Types) != b.Hash(res.Types) {
		t.Fatalf("equal parameters must hash identically")
	}
	if a.AsWritten == b.AsWritten {
		t.Fatalf("test premise broken: written forms should differ")
	}

	if a.Equal(c, res.Types) {
		t.Fatalf("different names must not compare equal")
	}
	if a.Equal(b, res.Types) && a.Span == b.Span {
		t.Fatalf("test premise broken: spans should differ")
	}
}

func TestParamEqualityMutability(t *testing.T) {
	res, bag := checkSource(t, `
type Jar { total: int }

impl Jar {
	fn a(self, mut amount: int) {}
	fn b(self, amount: int) {}
}
`)
	mustNoErrors(t, bag)

	mutParam := fnByName(t, res, "a").Params[1]
	plain := fnByName(t, res, "b").Params[1]
	if mutParam.Equal(plain, res.Types) {
		t.Fatalf("mutability must participate in parameter equality")
	}
	if !mutParam.Equal(mutParam, res.Types) {
		t.Fatalf("equality must be reflexive")
	}
}

func TestParamEqualityDifferentTypes(t *testing.T) {
	res, bag := checkSource(t, `
fn a(x: int) {}
fn b(x: bool) {}
`)
	mustNoErrors(t, bag)

	ai := fnByName(t, res, "a").Params[0]
	bi := fnByName(t, res, "b").Params[0]
	if ai.Equal(bi, res.Types) {
		t.Fatalf("different resolved types must not compare equal")
	}
}
