package sema

import (
	"fmt"

	"skarn/internal/ast"
	"skarn/internal/diag"
	"skarn/internal/source"
	"skarn/internal/symbols"
	"skarn/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// Types is the shared type interner. Nil means a fresh one per call;
	// batch checking passes one interner so handles stay comparable
	// across files.
	Types *types.Interner
	// Symbols is the shared symbol table. Nil means a fresh one per call.
	Symbols *symbols.Table
	// SourceFile records which loaded file the AST came from; it lands in
	// symbol declarations and scope owners for diagnostics.
	SourceFile source.FileID
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Types   *types.Interner
	Symbols *symbols.Table
	// Fns holds every checked signature in declaration order: free
	// functions first-to-last, impl and contract members inline where
	// their block appears.
	Fns []FnSig
	// Bag is filled when the reporter is a diag.BagReporter, nil otherwise.
	Bag *diag.Bag
}

// Check resolves declarations and function signatures for one file: type
// declarations are registered and populated, then every signature has its
// parameters resolved against the surrounding scope. Bodies are not checked;
// the parser does not keep them.
func Check(builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	res := Result{}
	if opts.Types != nil {
		res.Types = opts.Types
	} else {
		res.Types = types.NewInterner()
	}
	if opts.Symbols != nil {
		res.Symbols = opts.Symbols
	} else {
		// Share the builder's interner so names interned by the parser
		// and names interned by the prelude get the same IDs.
		var strings *source.Interner
		if builder != nil {
			strings = builder.StringsInterner
		}
		res.Symbols = symbols.NewTable(symbols.Hints{}, strings)
	}
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		res.Bag = br.Bag
	}
	if builder == nil || !fileID.IsValid() {
		return res
	}
	file := builder.Files.Get(fileID)
	if file == nil {
		return res
	}

	root := res.Symbols.FileRoot(opts.SourceFile, file.Span)
	resolver := symbols.NewResolver(res.Symbols, root, symbols.ResolverOptions{
		Reporter: opts.Reporter,
		Prelude:  symbols.TypePrelude(res.Types),
	})

	c := checker{
		builder:    builder,
		fileID:     fileID,
		sourceFile: opts.SourceFile,
		reporter:   opts.Reporter,
		types:      res.Types,
		table:      res.Symbols,
		resolver:   resolver,
		itemSyms:   make(map[ast.ItemID]symbols.SymbolID),
		typeItems:  make(map[ast.ItemID]types.TypeID),
		aliasItems: make(map[types.TypeID]ast.ItemID),
		aliasState: make(map[types.TypeID]aliasState),
		result:     &res,
	}
	c.run()
	return res
}

type aliasState uint8

const (
	aliasUnresolved aliasState = iota
	aliasResolving
	aliasResolved
)

type checker struct {
	builder    *ast.Builder
	fileID     ast.FileID
	sourceFile source.FileID
	reporter   diag.Reporter
	types      *types.Interner
	table      *symbols.Table
	resolver   *symbols.Resolver

	// itemSyms maps registered items to their file-scope symbols.
	itemSyms map[ast.ItemID]symbols.SymbolID
	// typeItems maps a type declaration item to its registered TypeID.
	typeItems map[ast.ItemID]types.TypeID
	// aliasItems maps an alias TypeID back to its declaration so targets
	// can be resolved on demand, in any declaration order.
	aliasItems map[types.TypeID]ast.ItemID
	aliasState map[types.TypeID]aliasState

	result *Result
}

// run drives the pass: declarations first so use-before-declaration works
// within a file, then targets and fields, then signatures.
func (c *checker) run() {
	file := c.builder.Files.Get(c.fileID)
	if file == nil {
		return
	}
	c.registerTypeDecls(file.Items)
	c.populateTypeDecls(file.Items)
	c.checkSignatures(file.Items)
}

func (c *checker) itemDecl(itemID ast.ItemID) symbols.SymbolDecl {
	return symbols.SymbolDecl{
		SourceFile: c.sourceFile,
		ASTFile:    c.fileID,
		Item:       itemID,
	}
}

func (c *checker) itemOwner(itemID ast.ItemID) symbols.ScopeOwner {
	return symbols.ScopeOwner{
		Kind:       symbols.ScopeOwnerItem,
		SourceFile: c.sourceFile,
		ASTFile:    c.fileID,
		Item:       itemID,
	}
}

func (c *checker) name(id source.StringID) string {
	return c.table.Strings.MustLookup(id)
}

func (c *checker) errorAt(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(c.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}
