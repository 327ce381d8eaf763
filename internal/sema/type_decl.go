package sema

import (
	"fmt"

	"fortio.org/safecast"

	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/symbols"
	"skarn/internal/types"
)

// registerTypeDecls declares every type and contract name into the file scope
// and allocates TypeIDs, without touching fields or alias targets. Splitting
// registration from population lets declarations reference each other in any
// order within the file.
func (c *checker) registerTypeDecls(items []ast.ItemID) {
	for _, itemID := range items {
		item := c.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemType:
			c.registerTypeDecl(itemID)
		case ast.ItemContract:
			c.registerContract(itemID)
		}
	}
}

func (c *checker) registerTypeDecl(itemID ast.ItemID) {
	decl, ok := c.builder.Items.TypeDecl(itemID)
	if !ok {
		return
	}
	var flags symbols.SymbolFlags
	if decl.IsPub {
		flags |= symbols.SymbolFlagPublic
	}
	symID, ok := c.resolver.Declare(decl.Name, decl.NameSpan, symbols.SymbolType, flags, types.NoTypeID, c.itemDecl(itemID))
	if !ok {
		// Дубликат: имя остаётся за первым объявлением, это — не
		// регистрируется, и все использования уходят к первому.
		return
	}

	var ty types.TypeID
	switch decl.Kind {
	case ast.TypeDeclStruct, ast.TypeDeclOpaque:
		params := c.registerDeclTypeParams(decl.TypeParams, symID)
		ty = c.types.RegisterStruct(decl.Name, decl.NameSpan, params)
	case ast.TypeDeclAlias:
		if len(decl.TypeParams) > 0 {
			c.errorAt(diag.SemaError, decl.NameSpan, "type alias '%s' cannot declare type parameters", c.name(decl.Name))
		}
		ty = c.types.RegisterAlias(decl.Name, decl.NameSpan)
		c.aliasItems[ty] = itemID
	default:
		return
	}

	if sym := c.table.Symbols.Get(symID); sym != nil {
		sym.Type = ty
	}
	c.itemSyms[itemID] = symID
	c.typeItems[itemID] = ty
}

func (c *checker) registerContract(itemID ast.ItemID) {
	decl, ok := c.builder.Items.Contract(itemID)
	if !ok {
		return
	}
	var flags symbols.SymbolFlags
	if decl.IsPub {
		flags |= symbols.SymbolFlagPublic
	}
	symID, ok := c.resolver.Declare(decl.Name, decl.NameSpan, symbols.SymbolContract, flags, types.NoTypeID, c.itemDecl(itemID))
	if !ok {
		return
	}
	c.itemSyms[itemID] = symID
}

// registerDeclTypeParams interns one generic-param handle per written
// parameter. Duplicate names are reported here, once, at the declaration;
// binding into scopes happens later per phase.
func (c *checker) registerDeclTypeParams(astParams []ast.TypeParamID, owner symbols.SymbolID) []types.TypeID {
	if len(astParams) == 0 {
		return nil
	}
	params := make([]types.TypeID, 0, len(astParams))
	seen := make(map[source.StringID]source.Span, len(astParams))
	for i, tpID := range astParams {
		tp := c.builder.Items.TypeParam(tpID)
		if tp == nil {
			continue
		}
		index, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("type param index overflow: %w", err))
		}
		params = append(params, c.types.RegisterTypeParam(tp.Name, uint32(owner), index))

		if first, dup := seen[tp.Name]; dup {
			diag.ReportError(c.reporter, diag.SemaDuplicateTypeParam, tp.NameSpan,
				fmt.Sprintf("duplicate type parameter '%s'", c.name(tp.Name))).
				WithNote(first, "first declared here").
				Emit()
			continue
		}
		seen[tp.Name] = tp.NameSpan
	}
	return params
}

// bindTypeParams declares the registered handles into the current scope.
// astParams and paramIDs run in parallel; duplicates were reported at
// registration, so repeats of a name are silently skipped here.
func (c *checker) bindTypeParams(astParams []ast.TypeParamID, paramIDs []types.TypeID, itemID ast.ItemID) {
	seen := make(map[source.StringID]bool, len(astParams))
	for i, tpID := range astParams {
		if i >= len(paramIDs) {
			break
		}
		tp := c.builder.Items.TypeParam(tpID)
		if tp == nil || seen[tp.Name] {
			continue
		}
		seen[tp.Name] = true
		c.resolver.Declare(tp.Name, tp.NameSpan, symbols.SymbolTypeParam, 0, paramIDs[i], c.itemDecl(itemID))
	}
}

// bindDeclTypeParams rebinds a struct declaration's generic parameters from
// the interner metadata. Used by impl blocks, where the written parameter
// list lives on the type declaration, not on the impl.
func (c *checker) bindDeclTypeParams(declTy types.TypeID, sp source.Span, itemID ast.ItemID) {
	info, ok := c.types.StructInfo(declTy)
	if !ok {
		return
	}
	seen := make(map[source.StringID]bool, len(info.TypeParams))
	for _, paramID := range info.TypeParams {
		pInfo, ok := c.types.TypeParamInfo(paramID)
		if !ok || seen[pInfo.Name] {
			continue
		}
		seen[pInfo.Name] = true
		c.resolver.Declare(pInfo.Name, sp, symbols.SymbolTypeParam, 0, paramID, c.itemDecl(itemID))
	}
}

// populateTypeDecls resolves struct fields and alias targets once every name
// in the file is registered.
func (c *checker) populateTypeDecls(items []ast.ItemID) {
	for _, itemID := range items {
		decl, ok := c.builder.Items.TypeDecl(itemID)
		if !ok {
			continue
		}
		ty, registered := c.typeItems[itemID]
		if !registered {
			continue
		}
		switch decl.Kind {
		case ast.TypeDeclStruct:
			c.populateStructFields(itemID, decl, ty)
		case ast.TypeDeclAlias:
			c.resolveAlias(ty)
		}
	}
}

func (c *checker) populateStructFields(itemID ast.ItemID, decl *ast.TypeDeclItem, ty types.TypeID) {
	scope := c.resolver.Enter(symbols.ScopeType, c.itemOwner(itemID), decl.Span)
	defer c.resolver.Leave(scope)

	info, ok := c.types.StructInfo(ty)
	if ok {
		c.bindTypeParams(decl.TypeParams, info.TypeParams, itemID)
	}

	rc := ResolutionContext{}
	fields := make([]types.StructField, 0, len(decl.Fields))
	seen := make(map[source.StringID]source.Span, len(decl.Fields))
	for _, fieldID := range decl.Fields {
		field := c.builder.Items.Field(fieldID)
		if field == nil {
			continue
		}
		if first, dup := seen[field.Name]; dup {
			diag.ReportError(c.reporter, diag.SemaDuplicateSymbol, field.NameSpan,
				fmt.Sprintf("duplicate field '%s'", c.name(field.Name))).
				WithNote(first, "first declared here").
				Emit()
			continue
		}
		seen[field.Name] = field.NameSpan

		written := c.writtenType(field.Type)
		resolved := c.resolveType(written, rc, c.typeExprSpan(field.Type), EnforceExact)
		fields = append(fields, types.StructField{Name: field.Name, Type: resolved})
	}
	c.types.SetStructFields(ty, fields)
}

// resolveAlias computes and caches the alias target. Resolution is demand
// driven so aliases may reference aliases declared later in the file; a
// cycle is broken at the declaration that closes it and poisons the target.
func (c *checker) resolveAlias(ty types.TypeID) types.TypeID {
	switch c.aliasState[ty] {
	case aliasResolved:
		if target, ok := c.types.AliasTarget(ty); ok && target.IsValid() {
			return target
		}
		return c.types.Builtins().Error

	case aliasResolving:
		if decl, ok := c.builder.Items.TypeDecl(c.aliasItems[ty]); ok {
			c.errorAt(diag.SemaRecursiveAlias, decl.NameSpan, "type alias '%s' refers back to itself", c.name(decl.Name))
		}
		c.aliasState[ty] = aliasResolved
		c.types.SetAliasTarget(ty, c.types.Builtins().Error)
		return c.types.Builtins().Error
	}

	c.aliasState[ty] = aliasResolving
	target := c.types.Builtins().Error
	if decl, ok := c.builder.Items.TypeDecl(c.aliasItems[ty]); ok && decl.Alias.IsValid() {
		written := c.writtenType(decl.Alias)
		target = c.resolveType(written, ResolutionContext{}, c.typeExprSpan(decl.Alias), EnforceExact)
	}
	c.aliasState[ty] = aliasResolved
	c.types.SetAliasTarget(ty, target)
	return target
}
