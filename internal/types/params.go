package types

import (
	"fmt"

	"fortio.org/safecast"

	"skarn/internal/source"
)

// TypeParamInfo stores metadata about a generic type parameter.
type TypeParamInfo struct {
	Name  source.StringID
	Owner uint32 // opaque declaration identity (symbol ID of the owner)
	Index uint32 // position in the owner's parameter list
}

// RegisterTypeParam interns the type parameter bound by (owner, index).
// Repeated registration for the same slot returns the existing TypeID.
func (in *Interner) RegisterTypeParam(name source.StringID, owner, index uint32) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()

	key := typeParamKey{Owner: owner, Index: index}
	if id, ok := in.paramIndex[key]; ok {
		return id
	}

	in.params = append(in.params, TypeParamInfo{Name: name, Owner: owner, Index: index})
	slot, err := safecast.Conv[uint32](len(in.params) - 1)
	if err != nil {
		panic(fmt.Errorf("type param info overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindGenericParam, Payload: slot})
	in.paramIndex[key] = id
	return id
}

// TypeParamInfo returns metadata for the provided generic parameter TypeID.
func (in *Interner) TypeParamInfo(typeID TypeID) (TypeParamInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.typeParamInfoLocked(typeID)
	if info == nil {
		return TypeParamInfo{}, false
	}
	return *info, true
}

func (in *Interner) typeParamInfoLocked(typeID TypeID) *TypeParamInfo {
	tt, ok := in.lookupLocked(typeID)
	if !ok || tt.Kind != KindGenericParam {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil
	}
	return &in.params[tt.Payload]
}
