// Package testkit holds structural checks shared by tests: properties
// every parsed file must satisfy regardless of what the source said.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"skarn/internal/ast"
	"skarn/internal/source"
)

// CheckSpanInvariants validates the span bookkeeping of a parsed file:
//
//  1. the file span stays within the content and names the right file
//  2. every item span is non-empty, in source order and inside the file span
//  3. the file span covers the union of item spans
//
// Пустой файл даёт пустой file span — это допустимо, пока в нём нет items.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points at file %d, want %d", f.Span.File, sf.ID)
	}
	contentLen, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflows uint32: %w", err)
	}
	if f.Span.End > contentLen {
		return fmt.Errorf("file span ends at %d beyond content length %d", f.Span.End, contentLen)
	}
	if len(f.Items) > 0 && f.Span.End <= f.Span.Start {
		return fmt.Errorf("file with %d items has empty span %v", len(f.Items), f.Span)
	}

	var union source.Span
	var prevStart uint32
	for idx, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("missing item node for id=%d", it)
		}
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("item %d has empty span %v", idx, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item %d span points at file %d, want %d", idx, sp.File, sf.ID)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("item %d span %v escapes file span %v", idx, sp, f.Span)
		}
		if idx > 0 && sp.Start < prevStart {
			return fmt.Errorf("item %d starts at %d before previous item at %d", idx, sp.Start, prevStart)
		}
		prevStart = sp.Start
		if idx == 0 {
			union = sp
		} else {
			union = union.Cover(sp)
		}
	}

	if len(f.Items) > 0 {
		if union.Start < f.Span.Start || union.End > f.Span.End {
			return fmt.Errorf("file span %v does not cover item union %v", f.Span, union)
		}
	}
	return nil
}
