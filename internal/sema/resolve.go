package sema

import (
	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/symbols"
	"skarn/internal/types"
)

// ParamSite says which kind of parameter list is being checked. The checking
// algorithm is shared; the site toggles the few rules that differ.
type ParamSite uint8

const (
	// SiteFunction is a free function: no receiver, mutability enforced.
	SiteFunction ParamSite = iota
	// SiteMethod is a function inside an impl block.
	SiteMethod
	// SiteContract is a signature inside a contract declaration.
	SiteContract
)

func (s ParamSite) String() string {
	switch s {
	case SiteFunction:
		return "function"
	case SiteMethod:
		return "method"
	case SiteContract:
		return "contract"
	default:
		return "invalid"
	}
}

// ResolutionContext carries the ambient facts resolution needs: the site and
// what a written `Self` stands for there. Self is the concrete impl target
// inside impl blocks, the shared placeholder inside contracts, and invalid
// elsewhere. Always passed by value; call sites adjust copies freely.
type ResolutionContext struct {
	Site ParamSite
	Self types.TypeID
}

// EnforceTypeArgs selects how resolution treats a generic declaration named
// without type arguments.
type EnforceTypeArgs uint8

const (
	// EnforceExact requires arguments for every generic declaration.
	EnforceExact EnforceTypeArgs = iota
	// AllowElided lets a bare generic name stand for its declaration.
	// Impl blocks use it so `impl Box` covers every instantiation.
	AllowElided
)

// writtenType interns the type expression exactly as the user wrote it:
// names stay names, nothing is looked up. The handle survives resolution
// untouched, so diagnostics and tooling can always recover the source form.
func (c *checker) writtenType(id ast.TypeID) types.TypeID {
	te := c.builder.Types.Get(id)
	if te == nil {
		return c.types.Builtins().Error
	}
	switch te.Kind {
	case ast.TypeExprSelf:
		return c.types.Builtins().SelfType
	case ast.TypeExprRef:
		return c.types.Intern(types.MakeReference(c.writtenType(te.Elem), te.Mutable))
	case ast.TypeExprArray:
		return c.types.Intern(types.MakeArray(c.writtenType(te.Elem)))
	case ast.TypeExprPath:
		var args []types.TypeID
		if len(te.Args) > 0 {
			args = make([]types.TypeID, 0, len(te.Args))
			for _, arg := range te.Args {
				args = append(args, c.writtenType(arg))
			}
		}
		return c.types.InternNamed(te.Name, args)
	default:
		return c.types.Builtins().Error
	}
}

func (c *checker) typeExprSpan(id ast.TypeID) source.Span {
	if te := c.builder.Types.Get(id); te != nil {
		return te.Span
	}
	return source.Span{}
}

// resolveType maps a written handle to a resolved one. Unresolvable parts
// report once and come back as the error type; composites keep their shape
// around a poisoned element so one bad leaf does not cascade.
func (c *checker) resolveType(written types.TypeID, rc ResolutionContext, sp source.Span, enforce EnforceTypeArgs) types.TypeID {
	t, ok := c.types.Lookup(written)
	if !ok {
		return c.types.Builtins().Error
	}
	switch t.Kind {
	case types.KindSelf:
		if !rc.Self.IsValid() {
			c.errorAt(diag.SemaSelfOutsideImpl, sp, "'Self' is only allowed inside impl and contract declarations")
			return c.types.Builtins().Error
		}
		return rc.Self

	case types.KindReference:
		return c.types.Intern(types.MakeReference(c.resolveType(t.Elem, rc, sp, enforce), t.Mutable))

	case types.KindArray:
		return c.types.Intern(types.MakeArray(c.resolveType(t.Elem, rc, sp, enforce)))

	case types.KindNamed:
		return c.resolveNamed(written, rc, sp, enforce)

	default:
		// Already concrete: primitives, registered nominals, generic
		// params, the error type itself.
		return written
	}
}

func (c *checker) resolveNamed(written types.TypeID, rc ResolutionContext, sp source.Span, enforce EnforceTypeArgs) types.TypeID {
	errID := c.types.Builtins().Error
	info, ok := c.types.NamedInfo(written)
	if !ok {
		return errID
	}

	typeLike := symbols.SymbolType.Mask() | symbols.SymbolTypeParam.Mask()
	symID, found := c.resolver.LookupOne(info.Name, typeLike)
	if !found {
		if _, isContract := c.resolver.LookupOne(info.Name, symbols.SymbolContract.Mask()); isContract {
			c.errorAt(diag.SemaUnresolvedType, sp, "'%s' is a contract, not a type", c.name(info.Name))
		} else {
			c.errorAt(diag.SemaUnresolvedType, sp, "unknown type '%s'", c.name(info.Name))
		}
		return errID
	}
	sym := c.table.Symbols.Get(symID)
	if sym == nil || !sym.Type.IsValid() {
		return errID
	}

	// Arguments resolve first, so a broken argument reports exactly once
	// no matter what happens to the head.
	args := make([]types.TypeID, 0, len(info.Args))
	for _, arg := range info.Args {
		args = append(args, c.resolveType(arg, rc, sp, enforce))
	}

	target := sym.Type
	switch c.types.MustLookup(target).Kind {
	case types.KindGenericParam:
		if len(args) > 0 {
			c.errorAt(diag.SemaUnexpectedTypeArgs, sp, "type parameter '%s' does not take type arguments", c.name(info.Name))
			return errID
		}
		return target

	case types.KindAlias:
		if len(args) > 0 {
			c.errorAt(diag.SemaUnexpectedTypeArgs, sp, "type alias '%s' does not take type arguments", c.name(info.Name))
			return errID
		}
		return c.resolveAlias(target)

	case types.KindStruct:
		declInfo, ok := c.types.StructInfo(target)
		if !ok {
			return errID
		}
		want, got := len(declInfo.TypeParams), len(args)
		switch {
		case want == 0 && got > 0:
			c.errorAt(diag.SemaUnexpectedTypeArgs, sp, "type '%s' does not take type arguments", c.name(info.Name))
			return errID
		case want > 0 && got == 0:
			if enforce == AllowElided {
				return target
			}
			c.errorAt(diag.SemaMissingTypeArgs, sp, "missing type arguments for '%s': expected %d, got 0", c.name(info.Name), want)
			return errID
		case want != got:
			c.errorAt(diag.SemaTypeArgCountMismatch, sp, "wrong number of type arguments for '%s': expected %d, got %d", c.name(info.Name), want, got)
			return errID
		case want == 0:
			return target
		default:
			return c.types.InstantiateStruct(target, args)
		}

	default:
		// Prelude primitives.
		if len(args) > 0 {
			c.errorAt(diag.SemaUnexpectedTypeArgs, sp, "type '%s' does not take type arguments", c.name(info.Name))
			return errID
		}
		return target
	}
}
