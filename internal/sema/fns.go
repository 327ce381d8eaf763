package sema

import (
	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/symbols"
	"skarn/internal/types"
)

// FnSig is one checked signature.
type FnSig struct {
	Name     source.StringID
	NameSpan source.Span
	Site     ParamSite
	// Owner is what `self` meant at this site: the impl target for
	// methods, the shared placeholder for contract signatures, invalid
	// for free functions.
	Owner  types.TypeID
	Symbol symbols.SymbolID
	Params []Param
	Return types.TypeID
	Span   source.Span
}

func (c *checker) checkSignatures(items []ast.ItemID) {
	for _, itemID := range items {
		item := c.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemFn:
			c.checkFnItem(itemID, ResolutionContext{Site: SiteFunction})
		case ast.ItemImpl:
			c.checkImplItem(itemID)
		case ast.ItemContract:
			c.checkContractItem(itemID)
		}
	}
}

// checkFnItem checks one signature: declares the function symbol, opens the
// signature scope, binds generics, then runs every parameter through the
// shared algorithm. The same path serves free functions, impl methods, and
// contract signatures; rc carries the difference.
func (c *checker) checkFnItem(itemID ast.ItemID, rc ResolutionContext) {
	fn, ok := c.builder.Items.Fn(itemID)
	if !ok {
		return
	}
	var flags symbols.SymbolFlags
	if fn.IsPub {
		flags |= symbols.SymbolFlagPublic
	}
	symID, declared := c.resolver.Declare(fn.Name, fn.NameSpan, symbols.SymbolFunction, flags, types.NoTypeID, c.itemDecl(itemID))
	if !declared {
		// Duplicate name: the signature is still checked so its own
		// errors surface, just under an unindexed symbol.
		symID = c.table.Symbols.New(&symbols.Symbol{
			Name:  fn.Name,
			Kind:  symbols.SymbolFunction,
			Span:  fn.NameSpan,
			Flags: flags,
			Decl:  c.itemDecl(itemID),
		})
	}

	scope := c.resolver.Enter(symbols.ScopeFunction, c.itemOwner(itemID), fn.Span)
	defer c.resolver.Leave(scope)

	paramIDs := c.registerDeclTypeParams(fn.TypeParams, symID)
	c.bindTypeParams(fn.TypeParams, paramIDs, itemID)

	params := make([]Param, 0, len(fn.Params))
	for _, fpID := range fn.Params {
		fp := c.builder.Items.FnParam(fpID)
		if fp == nil {
			continue
		}
		if param, produced := c.checkParam(fp, rc, itemID); produced {
			params = append(params, param)
		}
	}

	ret := c.types.Builtins().Unit
	if fn.ReturnType.IsValid() {
		ret = c.resolveType(c.writtenType(fn.ReturnType), rc, c.typeExprSpan(fn.ReturnType), EnforceExact)
	}

	c.result.Fns = append(c.result.Fns, FnSig{
		Name:     fn.Name,
		NameSpan: fn.NameSpan,
		Site:     rc.Site,
		Owner:    rc.Self,
		Symbol:   symID,
		Params:   params,
		Return:   ret,
		Span:     fn.Span,
	})
}

// checkImplItem resolves the impl target and checks every method with the
// target as Self.
func (c *checker) checkImplItem(itemID ast.ItemID) {
	impl, ok := c.builder.Items.Impl(itemID)
	if !ok {
		return
	}

	// The target resolves with elision allowed: `impl Box` names the
	// generic declaration, and the declaration's parameters become
	// visible to the methods below.
	written := c.writtenType(impl.Target)
	target := c.resolveType(written, ResolutionContext{Site: SiteMethod}, impl.TargetSpan, AllowElided)

	if impl.Contract.IsValid() {
		c.checkImplContractRef(impl)
	}

	scope := c.resolver.Enter(symbols.ScopeType, c.itemOwner(itemID), impl.Span)
	defer c.resolver.Leave(scope)
	c.bindDeclTypeParams(target, impl.TargetSpan, itemID)

	rc := ResolutionContext{Site: SiteMethod, Self: target}
	for _, fnID := range impl.Fns {
		c.checkFnItem(fnID, rc)
	}
}

// checkImplContractRef validates the `impl C for T` head: C must name a
// declared contract.
//
// TODO: check contract type arguments against the contract declaration.
func (c *checker) checkImplContractRef(impl *ast.ImplItem) {
	written := c.builder.Types.Get(impl.Contract)
	if written == nil {
		return
	}
	if written.Kind != ast.TypeExprPath {
		c.errorAt(diag.SemaUnresolvedType, written.Span, "expected a contract name before 'for'")
		return
	}
	if _, found := c.resolver.LookupOne(written.Name, symbols.SymbolContract.Mask()); !found {
		c.errorAt(diag.SemaUnresolvedType, written.Span, "unknown contract '%s'", c.name(written.Name))
	}
}

// checkContractItem checks every signature of a contract. Self stays the
// abstract placeholder, and parameters are not bound into any scope: there
// is no body that could read them.
func (c *checker) checkContractItem(itemID ast.ItemID) {
	decl, ok := c.builder.Items.Contract(itemID)
	if !ok {
		return
	}
	symID, registered := c.itemSyms[itemID]
	if !registered {
		// Duplicate contract name; keep checking under an unindexed
		// symbol, mirroring how duplicate functions degrade.
		symID = c.table.Symbols.New(&symbols.Symbol{
			Name: decl.Name,
			Kind: symbols.SymbolContract,
			Span: decl.NameSpan,
			Decl: c.itemDecl(itemID),
		})
	}

	scope := c.resolver.Enter(symbols.ScopeType, c.itemOwner(itemID), decl.Span)
	defer c.resolver.Leave(scope)

	paramIDs := c.registerDeclTypeParams(decl.TypeParams, symID)
	c.bindTypeParams(decl.TypeParams, paramIDs, itemID)

	rc := ResolutionContext{Site: SiteContract, Self: c.types.Builtins().SelfType}
	for _, fnID := range decl.Fns {
		c.checkFnItem(fnID, rc)
	}
}
