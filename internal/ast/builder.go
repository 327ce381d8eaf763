package ast

import (
	"skarn/internal/source"
)

type Hints struct{ Files, Items, Types uint }

// Builder owns the per-run AST arenas. StringsInterner is shared with the
// rest of the pipeline so names outlive the AST itself.
type Builder struct {
	Files           *Files
	Items           *Items
	Types           *TypeExprs
	StringsInterner *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Items:           NewItems(hints.Items),
		Types:           NewTypeExprs(hints.Types),
		StringsInterner: strings,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	b.Files.Get(file).Items = append(b.Files.Get(file).Items, item)
}
