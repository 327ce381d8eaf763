package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"skarn/internal/source"
)

// NamedInfo stores an unresolved written type reference: the name and the
// written type arguments, before any symbol lookup has happened. Parameter
// records keep the named handle as their as-written type forever.
type NamedInfo struct {
	Name source.StringID
	Args []TypeID
}

// InternNamed interns the written reference name<args...>. Identical
// references share one TypeID.
func (in *Interner) InternNamed(name source.StringID, args []TypeID) TypeID {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, cand := range in.namedIndex[uint64(name)] {
		if info := in.namedInfoLocked(cand); info != nil && slices.Equal(info.Args, args) {
			return cand
		}
	}

	in.named = append(in.named, NamedInfo{Name: name, Args: slices.Clone(args)})
	slot, err := safecast.Conv[uint32](len(in.named) - 1)
	if err != nil {
		panic(fmt.Errorf("named info overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindNamed, Payload: slot})
	in.namedIndex[uint64(name)] = append(in.namedIndex[uint64(name)], id)
	return id
}

// NamedInfo returns a copy of the written reference payload.
func (in *Interner) NamedInfo(typeID TypeID) (NamedInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.namedInfoLocked(typeID)
	if info == nil {
		return NamedInfo{}, false
	}
	cp := *info
	cp.Args = slices.Clone(info.Args)
	return cp, true
}

func (in *Interner) namedInfoLocked(typeID TypeID) *NamedInfo {
	tt, ok := in.lookupLocked(typeID)
	if !ok || tt.Kind != KindNamed {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.named) {
		return nil
	}
	return &in.named[tt.Payload]
}
