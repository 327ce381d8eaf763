package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"skarn/internal/source"
)

// StructField describes a single field inside a nominal struct type.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo stores metadata for a struct declaration or instantiation.
// Declarations carry TypeParams; instantiations carry DeclOf + Args.
type StructInfo struct {
	Name       source.StringID
	Decl       source.Span
	DeclOf     TypeID // NoTypeID on declarations
	TypeParams []TypeID
	Args       []TypeID
	Fields     []StructField
}

// IsInstance reports whether the info describes an instantiation.
func (si StructInfo) IsInstance() bool { return si.DeclOf != NoTypeID }

// AliasInfo stores metadata for a nominal alias type.
type AliasInfo struct {
	Name   source.StringID
	Decl   source.Span
	Target TypeID
}

// RegisterStruct allocates a struct declaration slot and returns its TypeID.
// Every call creates a distinct nominal type, even for a repeated name.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span, typeParams []TypeID) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	slot := in.appendStructInfo(StructInfo{
		Name:       name,
		Decl:       decl,
		TypeParams: slices.Clone(typeParams),
	})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// InstantiateStruct interns the instantiation of a struct declaration with
// the given resolved type arguments. Identical (decl, args) pairs share one
// TypeID.
func (in *Interner) InstantiateStruct(decl TypeID, args []TypeID) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()

	declInfo := in.structInfoLocked(decl)
	if declInfo == nil {
		return in.builtins.Error
	}
	for _, cand := range in.instIndex[decl] {
		if info := in.structInfoLocked(cand); info != nil && slices.Equal(info.Args, args) {
			return cand
		}
	}

	slot := in.appendStructInfo(StructInfo{
		Name:   declInfo.Name,
		Decl:   declInfo.Decl,
		DeclOf: decl,
		Args:   slices.Clone(args),
	})
	id := in.internRaw(Type{Kind: KindStruct, Payload: slot})
	in.instIndex[decl] = append(in.instIndex[decl], id)
	return id
}

// SetStructFields stores resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(typeID TypeID, fields []StructField) {
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.structInfoLocked(typeID)
	if info == nil {
		return
	}
	info.Fields = slices.Clone(fields)
}

// StructInfo returns a copy of the metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (StructInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.structInfoLocked(typeID)
	if info == nil {
		return StructInfo{}, false
	}
	cp := *info
	cp.TypeParams = slices.Clone(info.TypeParams)
	cp.Args = slices.Clone(info.Args)
	cp.Fields = slices.Clone(info.Fields)
	return cp, true
}

// RegisterAlias allocates a nominal alias slot and returns its TypeID.
func (in *Interner) RegisterAlias(name source.StringID, decl source.Span) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()
	slot := in.appendAliasInfo(AliasInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindAlias, Payload: slot})
}

// SetAliasTarget sets the aliased target type for the provided alias TypeID.
func (in *Interner) SetAliasTarget(typeID, target TypeID) {
	in.mu.Lock()
	defer in.mu.Unlock()
	info := in.aliasInfoLocked(typeID)
	if info == nil {
		return
	}
	info.Target = target
}

// AliasTarget retrieves the aliased target type.
func (in *Interner) AliasTarget(typeID TypeID) (TypeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.aliasInfoLocked(typeID)
	if info == nil || info.Target == NoTypeID {
		return NoTypeID, false
	}
	return info.Target, true
}

// AliasInfo returns a copy of the metadata for the provided alias TypeID.
func (in *Interner) AliasInfo(typeID TypeID) (AliasInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.aliasInfoLocked(typeID)
	if info == nil {
		return AliasInfo{}, false
	}
	return *info, true
}

func (in *Interner) structInfoLocked(typeID TypeID) *StructInfo {
	tt, ok := in.lookupLocked(typeID)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

func (in *Interner) aliasInfoLocked(typeID TypeID) *AliasInfo {
	tt, ok := in.lookupLocked(typeID)
	if !ok || tt.Kind != KindAlias {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.aliases) {
		return nil
	}
	return &in.aliases[tt.Payload]
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	in.structs = append(in.structs, info)
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return slot
}

func (in *Interner) appendAliasInfo(info AliasInfo) uint32 {
	in.aliases = append(in.aliases, info)
	slot, err := safecast.Conv[uint32](len(in.aliases) - 1)
	if err != nil {
		panic(fmt.Errorf("alias info overflow: %w", err))
	}
	return slot
}
