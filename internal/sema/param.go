package sema

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/symbols"
	"skarn/internal/types"
)

// Param is one resolved parameter of a checked signature.
//
// Type and AsWritten are deliberately separate handles: Type moves as
// resolution (and later substitution) refines it, while AsWritten is interned
// once from the source text and never rewritten, so diagnostics and tooling
// can always recover what the user actually typed.
type Param struct {
	Name     source.StringID
	NameSpan source.Span
	IsSelf   bool
	IsRef    bool
	IsMut    bool
	// MutSpan covers the written `mut` keyword; set only when IsMut.
	MutSpan   source.Span
	Type      types.TypeID
	AsWritten types.TypeID
	TypeSpan  source.Span
	Span      source.Span
}

// Equal compares what the language considers the same parameter: name,
// mutability, and the resolved type compared structurally through the
// interner. Spans and the written form stay out, so the same parameter
// reached through an alias or a different spelling still compares equal.
func (p Param) Equal(other Param, ti *types.Interner) bool {
	return p.Name == other.Name &&
		p.IsMut == other.IsMut &&
		ti.EqualTypes(p.Type, other.Type)
}

// Hash agrees with Equal: parameters that compare equal hash identically.
// Only the fields Equal looks at participate.
func (p Param) Hash(ti *types.Interner) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(p.Name))
	h.Write(buf[:4])
	if p.IsMut {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	binary.LittleEndian.PutUint64(buf[:], ti.Fingerprint(p.Type))
	h.Write(buf[:])
	return h.Sum64()
}

// checkParam resolves one written parameter under the given context. The
// algorithm is the same for every site; rc switches the few rules that
// differ: whether `self` means anything, whether owned-`mut` is rejected,
// and whether the parameter lands in the scope. A false return means the
// parameter was refused outright and nothing was produced for it.
func (c *checker) checkParam(fp *ast.FnParam, rc ResolutionContext, itemID ast.ItemID) (Param, bool) {
	if fp.IsSelf {
		return c.checkSelfParam(fp, rc, itemID)
	}

	// `mut` без `ref` — владеющий изменяемый параметр. В свободных
	// функциях он запрещён целиком: параметр не создаётся.
	if fp.IsMut && !fp.IsRef && rc.Site == SiteFunction {
		diag.ReportError(c.reporter, diag.SemaMutableParamNotAllowed, fp.MutSpan,
			fmt.Sprintf("mutable parameter '%s' is not supported on free functions", c.name(fp.Name))).
			WithFix("take the parameter by mutable reference", diag.FixEdit{Span: fp.MutSpan, NewText: "ref mut"}).
			Emit()
		return Param{}, false
	}

	written := c.writtenType(fp.Type)
	resolved := c.resolveType(written, rc, fp.TypeSpan, EnforceExact)

	param := Param{
		Name:      fp.Name,
		NameSpan:  fp.NameSpan,
		IsRef:     fp.IsRef,
		IsMut:     fp.IsMut,
		MutSpan:   fp.MutSpan,
		Type:      resolved,
		AsWritten: written,
		TypeSpan:  fp.TypeSpan,
		Span:      fp.Span,
	}
	if rc.Site != SiteContract {
		c.bindParam(param, itemID)
	}
	return param, true
}

// checkSelfParam handles the receiver. Free functions have nothing for
// `self` to mean; the parameter still materializes with a poisoned type so
// one bad receiver does not wreck the rest of the signature.
func (c *checker) checkSelfParam(fp *ast.FnParam, rc ResolutionContext, itemID ast.ItemID) (Param, bool) {
	selfTy := rc.Self
	if rc.Site == SiteFunction {
		c.errorAt(diag.SemaSelfParamOutsideImpl, fp.NameSpan,
			"'self' parameter is only allowed in impl and contract methods")
		selfTy = c.types.Builtins().Error
	}
	param := Param{
		Name:      fp.Name,
		NameSpan:  fp.NameSpan,
		IsSelf:    true,
		IsRef:     fp.IsRef,
		IsMut:     fp.IsMut,
		MutSpan:   fp.MutSpan,
		Type:      selfTy,
		AsWritten: c.types.Builtins().SelfType,
		TypeSpan:  fp.NameSpan,
		Span:      fp.Span,
	}
	if rc.Site != SiteContract {
		c.bindParam(param, itemID)
	}
	return param, true
}

// bindParam installs the parameter into the signature scope. Bind, not
// Declare: a repeated name overwrites the earlier binding, so a broken
// parameter list degrades into the last written declaration instead of a
// cascade of lookup errors.
func (c *checker) bindParam(p Param, itemID ast.ItemID) {
	var flags symbols.SymbolFlags
	if p.IsMut {
		flags |= symbols.SymbolFlagMutable
	}
	if p.IsRef {
		flags |= symbols.SymbolFlagReference
	}
	c.resolver.Bind(p.Name, p.NameSpan, symbols.SymbolParam, flags, p.Type, c.itemDecl(itemID))
}
