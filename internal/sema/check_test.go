package sema

import (
	"testing"

	"skarn/internal/diag"
	"skarn/internal/symbols"
	"skarn/internal/types"
)

func TestCheckOrdinaryFreeFunction(t *testing.T) {
	res, bag := checkSource(t, `fn main(count: uint64) {}`)
	mustNoErrors(t, bag)

	sig := fnByName(t, res, "main")
	if sig.Site != SiteFunction {
		t.Fatalf("site = %v, want %v", sig.Site, SiteFunction)
	}
	if sig.Owner.IsValid() {
		t.Fatalf("free function has owner %v", sig.Owner)
	}
	if len(sig.Params) != 1 {
		t.Fatalf("params = %d, want 1", len(sig.Params))
	}

	param := sig.Params[0]
	if got := res.Symbols.Strings.MustLookup(param.Name); got != "count" {
		t.Fatalf("param name = %q, want %q", got, "count")
	}
	resolved := res.Types.MustLookup(param.Type)
	if resolved.Kind != types.KindUint || resolved.Width != types.Width64 {
		t.Fatalf("resolved type = %v/%v, want uint64", resolved.Kind, resolved.Width)
	}

	// Запись "как написано" остаётся именем, а не резолвленным типом.
	if param.AsWritten == param.Type {
		t.Fatalf("as-written handle %v must differ from resolved %v", param.AsWritten, param.Type)
	}
	info, ok := res.Types.NamedInfo(param.AsWritten)
	if !ok {
		t.Fatalf("as-written %v is not a named reference", param.AsWritten)
	}
	if got := res.Symbols.Strings.MustLookup(info.Name); got != "uint64" {
		t.Fatalf("as-written name = %q, want %q", got, "uint64")
	}

	// The parameter must be visible inside the signature scope.
	scopes := functionScopes(res)
	if len(scopes) != 1 {
		t.Fatalf("function scopes = %d, want 1", len(scopes))
	}
	countID := res.Symbols.Strings.Intern("count")
	if len(scopes[0].NameIndex[countID]) != 1 {
		t.Fatalf("parameter not bound into signature scope")
	}
}

func TestCheckSelfInFreeFunction(t *testing.T) {
	res, bag := checkSource(t, `fn main(self, x: int) {}`)

	if !hasDiagnostic(bag, diag.SemaSelfParamOutsideImpl) {
		t.Fatalf("expected SemaSelfParamOutsideImpl, got: %s", diagnosticsSummary(bag))
	}
	if got := countErrors(bag); got != 1 {
		t.Fatalf("errors = %d, want exactly 1: %s", got, diagnosticsSummary(bag))
	}

	// The receiver degrades to the poison type; the rest of the list is
	// still checked.
	sig := fnByName(t, res, "main")
	if len(sig.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(sig.Params))
	}
	if !sig.Params[0].IsSelf {
		t.Fatalf("first param is not the receiver")
	}
	if !res.Types.IsError(sig.Params[0].Type) {
		t.Fatalf("receiver type = %v, want the error type", sig.Params[0].Type)
	}
	if res.Types.MustLookup(sig.Params[1].Type).Kind != types.KindInt {
		t.Fatalf("second param did not resolve to int")
	}
}

func TestCheckMutableParamRejectedInFreeFunctions(t *testing.T) {
	res, bag := checkSource(t, `fn push(mut stack: int[], value: int) {}`)

	if !hasDiagnostic(bag, diag.SemaMutableParamNotAllowed) {
		t.Fatalf("expected SemaMutableParamNotAllowed, got: %s", diagnosticsSummary(bag))
	}

	// Structural refusals produce no parameter at all.
	sig := fnByName(t, res, "push")
	if len(sig.Params) != 1 {
		t.Fatalf("params = %d, want 1 (mut param refused)", len(sig.Params))
	}
	if got := res.Symbols.Strings.MustLookup(sig.Params[0].Name); got != "value" {
		t.Fatalf("surviving param = %q, want %q", got, "value")
	}

	// The diagnostic carries a ready edit: `mut` -> `ref mut`.
	var fixed bool
	for _, d := range bag.Items() {
		if d.Code != diag.SemaMutableParamNotAllowed {
			continue
		}
		for _, fix := range d.Fixes {
			for _, edit := range fix.Edits {
				if edit.NewText == "ref mut" {
					fixed = true
				}
			}
		}
	}
	if !fixed {
		t.Fatalf("expected a 'ref mut' fix on the diagnostic")
	}
}

func TestCheckMutableAllowedInMethods(t *testing.T) {
	res, bag := checkSource(t, `
type Counter { hits: int }

impl Counter {
	fn bump(mut self, mut step: int) {}
}
`)
	mustNoErrors(t, bag)

	sig := fnByName(t, res, "bump")
	if sig.Site != SiteMethod {
		t.Fatalf("site = %v, want %v", sig.Site, SiteMethod)
	}
	if len(sig.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(sig.Params))
	}
	if !sig.Params[0].IsSelf || !sig.Params[0].IsMut {
		t.Fatalf("receiver flags: IsSelf=%v IsMut=%v, want both true", sig.Params[0].IsSelf, sig.Params[0].IsMut)
	}
	if !sig.Params[1].IsMut {
		t.Fatalf("owned-mut parameter must survive in methods")
	}

	// Self resolves to the declared type.
	counter, ok := symbolByName(res, "Counter", symbols.SymbolType)
	if !ok {
		t.Fatalf("Counter not declared")
	}
	if sig.Params[0].Type != counter.Type {
		t.Fatalf("receiver type = %v, want Counter decl %v", sig.Params[0].Type, counter.Type)
	}
	if sig.Owner != counter.Type {
		t.Fatalf("owner = %v, want Counter decl %v", sig.Owner, counter.Type)
	}
}

func TestCheckContractSignatures(t *testing.T) {
	res, bag := checkSource(t, `
contract Show {
	fn show(self, pad: int);
	fn reset(mut self, mut depth: int);
}
`)
	mustNoErrors(t, bag)

	sig := fnByName(t, res, "show")
	if sig.Site != SiteContract {
		t.Fatalf("site = %v, want %v", sig.Site, SiteContract)
	}
	if sig.Params[0].Type != res.Types.Builtins().SelfType {
		t.Fatalf("contract receiver = %v, want the Self placeholder", sig.Params[0].Type)
	}
	if sig.Owner != res.Types.Builtins().SelfType {
		t.Fatalf("contract owner = %v, want the Self placeholder", sig.Owner)
	}

	// Owned-mut parameters pass in contracts; the free-function rule does
	// not reach here.
	reset := fnByName(t, res, "reset")
	if len(reset.Params) != 2 || !reset.Params[1].IsMut {
		t.Fatalf("mut parameter did not survive in a contract signature")
	}

	// Contract parameters are never bound: there is no body to read them.
	for _, sc := range functionScopes(res) {
		if len(sc.Symbols) != 0 {
			t.Fatalf("contract signature scope has %d symbols, want 0", len(sc.Symbols))
		}
	}
}

func TestCheckUnknownTypeDegradesGracefully(t *testing.T) {
	res, bag := checkSource(t, `fn f(a: Bogus, b: int) {}`)

	if !hasDiagnostic(bag, diag.SemaUnresolvedType) {
		t.Fatalf("expected SemaUnresolvedType, got: %s", diagnosticsSummary(bag))
	}
	if got := countErrors(bag); got != 1 {
		t.Fatalf("errors = %d, want exactly 1: %s", got, diagnosticsSummary(bag))
	}

	sig := fnByName(t, res, "f")
	if len(sig.Params) != 2 {
		t.Fatalf("params = %d, want 2 (recoverable errors keep the parameter)", len(sig.Params))
	}
	if !res.Types.IsError(sig.Params[0].Type) {
		t.Fatalf("unresolved param type = %v, want the error type", sig.Params[0].Type)
	}
	// Its written form still names Bogus.
	info, ok := res.Types.NamedInfo(sig.Params[0].AsWritten)
	if !ok || res.Symbols.Strings.MustLookup(info.Name) != "Bogus" {
		t.Fatalf("as-written form lost the original name")
	}
	if res.Types.MustLookup(sig.Params[1].Type).Kind != types.KindInt {
		t.Fatalf("later parameter did not resolve")
	}
}

func TestCheckCompositeTypes(t *testing.T) {
	res, bag := checkSource(t, `fn f(xs: int[], s: &mut string, m: &bool[]) {}`)
	mustNoErrors(t, bag)

	sig := fnByName(t, res, "f")
	if len(sig.Params) != 3 {
		t.Fatalf("params = %d, want 3", len(sig.Params))
	}

	arr := res.Types.MustLookup(sig.Params[0].Type)
	if arr.Kind != types.KindArray || res.Types.MustLookup(arr.Elem).Kind != types.KindInt {
		t.Fatalf("xs did not resolve to int[]")
	}

	ref := res.Types.MustLookup(sig.Params[1].Type)
	if ref.Kind != types.KindReference || !ref.Mutable || res.Types.MustLookup(ref.Elem).Kind != types.KindString {
		t.Fatalf("s did not resolve to &mut string")
	}

	outer := res.Types.MustLookup(sig.Params[2].Type)
	if outer.Kind != types.KindReference || outer.Mutable {
		t.Fatalf("m did not resolve to an immutable reference")
	}
	inner := res.Types.MustLookup(outer.Elem)
	if inner.Kind != types.KindArray || res.Types.MustLookup(inner.Elem).Kind != types.KindBool {
		t.Fatalf("m element did not resolve to bool[]")
	}
}

func TestCheckGenericFunction(t *testing.T) {
	res, bag := checkSource(t, `fn id<T>(x: T) -> T;`)
	mustNoErrors(t, bag)

	sig := fnByName(t, res, "id")
	param := res.Types.MustLookup(sig.Params[0].Type)
	if param.Kind != types.KindGenericParam {
		t.Fatalf("x resolved to %v, want a generic parameter", param.Kind)
	}
	info, ok := res.Types.TypeParamInfo(sig.Params[0].Type)
	if !ok || res.Symbols.Strings.MustLookup(info.Name) != "T" {
		t.Fatalf("generic parameter metadata lost")
	}
	if sig.Return != sig.Params[0].Type {
		t.Fatalf("return %v and parameter %v must share the same handle", sig.Return, sig.Params[0].Type)
	}
}

func TestCheckGenericInstantiation(t *testing.T) {
	res, bag := checkSource(t, `
type Box<T> { value: T }

fn f(b: Box<int>) {}
`)
	mustNoErrors(t, bag)

	boxSym, ok := symbolByName(res, "Box", symbols.SymbolType)
	if !ok {
		t.Fatalf("Box not declared")
	}

	sig := fnByName(t, res, "f")
	inst, ok := res.Types.StructInfo(sig.Params[0].Type)
	if !ok {
		t.Fatalf("parameter is not a struct type")
	}
	if !inst.IsInstance() {
		t.Fatalf("parameter resolved to the bare declaration, want an instantiation")
	}
	if inst.DeclOf != boxSym.Type {
		t.Fatalf("instance decl = %v, want %v", inst.DeclOf, boxSym.Type)
	}
	if len(inst.Args) != 1 || res.Types.MustLookup(inst.Args[0]).Kind != types.KindInt {
		t.Fatalf("instance args = %v, want [int]", inst.Args)
	}

	// The same instantiation from a second site shares the handle.
	res2, bag2 := checkSource(t, `
type Box<T> { value: T }

fn f(b: Box<int>) {}
fn g(b: Box<int>) {}
`)
	mustNoErrors(t, bag2)
	f := fnByName(t, res2, "f")
	g := fnByName(t, res2, "g")
	if f.Params[0].Type != g.Params[0].Type {
		t.Fatalf("identical instantiations got distinct handles: %v vs %v", f.Params[0].Type, g.Params[0].Type)
	}
}

func TestCheckTypeArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{
			name: "missing args",
			src:  "type Box<T> { value: T }\nfn f(b: Box) {}",
			code: diag.SemaMissingTypeArgs,
		},
		{
			name: "wrong arity",
			src:  "type Pair<A, B> { a: A, b: B }\nfn f(p: Pair<int>) {}",
			code: diag.SemaTypeArgCountMismatch,
		},
		{
			name: "args on plain type",
			src:  "type Point { x: int }\nfn f(p: Point<int>) {}",
			code: diag.SemaUnexpectedTypeArgs,
		},
		{
			name: "args on primitive",
			src:  "fn f(x: int<bool>) {}",
			code: diag.SemaUnexpectedTypeArgs,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag := checkSource(t, tt.src)
			if !hasDiagnostic(bag, tt.code) {
				t.Fatalf("expected %v, got: %s", tt.code, diagnosticsSummary(bag))
			}
			// The parameter still materializes, poisoned.
			sig := fnByName(t, res, "f")
			if len(sig.Params) != 1 {
				t.Fatalf("params = %d, want 1", len(sig.Params))
			}
			if !res.Types.IsError(sig.Params[0].Type) {
				t.Fatalf("param type = %v, want the error type", sig.Params[0].Type)
			}
		})
	}
}

func TestCheckAliases(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		res, bag := checkSource(t, `
type Meters = uint64;

fn walk(distance: Meters) {}
`)
		mustNoErrors(t, bag)
		sig := fnByName(t, res, "walk")
		resolved := res.Types.MustLookup(sig.Params[0].Type)
		if resolved.Kind != types.KindUint || resolved.Width != types.Width64 {
			t.Fatalf("Meters did not resolve to uint64")
		}
		info, ok := res.Types.NamedInfo(sig.Params[0].AsWritten)
		if !ok || res.Symbols.Strings.MustLookup(info.Name) != "Meters" {
			t.Fatalf("as-written form must keep the alias name")
		}
	})

	t.Run("forward chain", func(t *testing.T) {
		res, bag := checkSource(t, `
type A = B;
type B = int;

fn f(x: A) {}
`)
		mustNoErrors(t, bag)
		sig := fnByName(t, res, "f")
		if res.Types.MustLookup(sig.Params[0].Type).Kind != types.KindInt {
			t.Fatalf("alias chain did not resolve to int")
		}
	})

	t.Run("cycle", func(t *testing.T) {
		res, bag := checkSource(t, `
type A = B;
type B = A;

fn f(x: A) {}
`)
		if !hasDiagnostic(bag, diag.SemaRecursiveAlias) {
			t.Fatalf("expected SemaRecursiveAlias, got: %s", diagnosticsSummary(bag))
		}
		if got := countErrors(bag); got != 1 {
			t.Fatalf("cycle must report once, got %d: %s", got, diagnosticsSummary(bag))
		}
		sig := fnByName(t, res, "f")
		if !res.Types.IsError(sig.Params[0].Type) {
			t.Fatalf("cyclic alias should poison its users")
		}
	})
}

func TestCheckImplTargetGenericElision(t *testing.T) {
	res, bag := checkSource(t, `
type Box<T> { value: T }

impl Box {
	fn get(self) -> T;
	fn put(mut self, value: T) {}
}
`)
	mustNoErrors(t, bag)

	boxSym, _ := symbolByName(res, "Box", symbols.SymbolType)
	get := fnByName(t, res, "get")
	if get.Owner != boxSym.Type {
		t.Fatalf("impl Box owner = %v, want the bare declaration %v", get.Owner, boxSym.Type)
	}
	// Методы видят параметры объявления: T из Box<T>.
	if res.Types.MustLookup(get.Return).Kind != types.KindGenericParam {
		t.Fatalf("return type did not resolve to Box's T")
	}
	put := fnByName(t, res, "put")
	if put.Params[1].Type != get.Return {
		t.Fatalf("both methods must see the same T handle")
	}
}

func TestCheckImplForContract(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res, bag := checkSource(t, `
type Point { x: int, y: int }

contract Show {
	fn show(self);
}

impl Show for Point {
	fn show(self) {}
}
`)
		mustNoErrors(t, bag)
		pointSym, _ := symbolByName(res, "Point", symbols.SymbolType)

		var implShow *FnSig
		for i := range res.Fns {
			if res.Fns[i].Site == SiteMethod {
				implShow = &res.Fns[i]
			}
		}
		if implShow == nil {
			t.Fatalf("no method signature recorded")
		}
		if implShow.Owner != pointSym.Type {
			t.Fatalf("method owner = %v, want Point %v", implShow.Owner, pointSym.Type)
		}
		if implShow.Params[0].Type != pointSym.Type {
			t.Fatalf("self = %v, want Point %v", implShow.Params[0].Type, pointSym.Type)
		}
	})

	t.Run("unknown contract", func(t *testing.T) {
		_, bag := checkSource(t, `
type Point { x: int }

impl Show for Point {
	fn show(self) {}
}
`)
		if !hasDiagnostic(bag, diag.SemaUnresolvedType) {
			t.Fatalf("expected SemaUnresolvedType for the contract name, got: %s", diagnosticsSummary(bag))
		}
	})
}

func TestCheckSelfTypeResolution(t *testing.T) {
	t.Run("in impl", func(t *testing.T) {
		res, bag := checkSource(t, `
type Point { x: int }

impl Point {
	fn clone(self) -> Self;
}
`)
		mustNoErrors(t, bag)
		pointSym, _ := symbolByName(res, "Point", symbols.SymbolType)
		sig := fnByName(t, res, "clone")
		if sig.Return != pointSym.Type {
			t.Fatalf("Self return = %v, want Point %v", sig.Return, pointSym.Type)
		}
	})

	t.Run("outside impl", func(t *testing.T) {
		res, bag := checkSource(t, `fn f(x: Self) {}`)
		if !hasDiagnostic(bag, diag.SemaSelfOutsideImpl) {
			t.Fatalf("expected SemaSelfOutsideImpl, got: %s", diagnosticsSummary(bag))
		}
		sig := fnByName(t, res, "f")
		if !res.Types.IsError(sig.Params[0].Type) {
			t.Fatalf("Self outside impl should poison the parameter")
		}
	})
}

func TestCheckDuplicates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{
			name: "duplicate type",
			src:  "type P { x: int }\ntype P { y: bool }",
			code: diag.SemaDuplicateSymbol,
		},
		{
			name: "duplicate function",
			src:  "fn f() {}\nfn f() {}",
			code: diag.SemaDuplicateSymbol,
		},
		{
			name: "duplicate type parameter",
			src:  "fn f<T, T>(x: T) {}",
			code: diag.SemaDuplicateTypeParam,
		},
		{
			name: "duplicate field",
			src:  "type P { x: int, x: bool }",
			code: diag.SemaDuplicateSymbol,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := checkSource(t, tt.src)
			if !hasDiagnostic(bag, tt.code) {
				t.Fatalf("expected %v, got: %s", tt.code, diagnosticsSummary(bag))
			}
		})
	}
}

func TestCheckParamRebindLastWins(t *testing.T) {
	res, bag := checkSource(t, `fn f(x: int, x: bool) {}`)

	// Повторное имя не ошибка: позднее связывание побеждает.
	mustNoErrors(t, bag)
	sig := fnByName(t, res, "f")
	if len(sig.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(sig.Params))
	}

	scopes := functionScopes(res)
	if len(scopes) != 1 {
		t.Fatalf("function scopes = %d, want 1", len(scopes))
	}
	xID := res.Symbols.Strings.Intern("x")
	bound := scopes[0].NameIndex[xID]
	if len(bound) != 2 {
		t.Fatalf("bindings for x = %d, want 2", len(bound))
	}
	last := res.Symbols.Symbols.Get(bound[len(bound)-1])
	if last == nil || res.Types.MustLookup(last.Type).Kind != types.KindBool {
		t.Fatalf("newest binding must be the bool one")
	}
}

func TestCheckInterningDeterminism(t *testing.T) {
	const src = `
type Box<T> { value: T }
type Meters = uint64;

contract Show {
	fn show(self);
}

fn f(b: Box<int>, d: Meters, flags: bool[]) -> string;
`
	res1, bag1 := checkSource(t, src)
	res2, bag2 := checkSource(t, src)
	mustNoErrors(t, bag1)
	mustNoErrors(t, bag2)

	f1 := fnByName(t, res1, "f")
	f2 := fnByName(t, res2, "f")
	if len(f1.Params) != len(f2.Params) {
		t.Fatalf("param counts differ across runs")
	}
	for i := range f1.Params {
		if f1.Params[i].Type != f2.Params[i].Type {
			t.Fatalf("param %d resolved to %v and %v across identical runs", i, f1.Params[i].Type, f2.Params[i].Type)
		}
		if f1.Params[i].AsWritten != f2.Params[i].AsWritten {
			t.Fatalf("param %d as-written differs across identical runs", i)
		}
	}
	if f1.Return != f2.Return {
		t.Fatalf("return types differ across identical runs")
	}
}
