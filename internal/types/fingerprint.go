package types

import (
	"hash"
	"hash/fnv"
)

// Fingerprint returns a structural hash of the type behind id. It agrees with
// EqualTypes: two IDs that compare equal always fingerprint the same. The
// converse does not hold, so callers must treat it as a hash, not an identity.
func (in *Interner) Fingerprint(id TypeID) uint64 {
	in.mu.RLock()
	defer in.mu.RUnlock()
	h := fnv.New64a()
	in.fingerprintLocked(id, h)
	return h.Sum64()
}

// fingerprintLocked mirrors equalLocked case by case: every field that
// participates in equality is written, and nothing else.
func (in *Interner) fingerprintLocked(id TypeID, h hash.Hash64) {
	t, ok := in.lookupLocked(id)
	if !ok {
		h.Write([]byte{0xFF})
		return
	}
	h.Write([]byte{byte(t.Kind)})

	switch t.Kind {
	case KindError, KindUnit, KindBool, KindString, KindSelf:
		// Kind byte is enough.

	case KindInt, KindUint, KindFloat:
		h.Write([]byte{byte(t.Width)})

	case KindReference:
		mut := byte(0)
		if t.Mutable {
			mut = 1
		}
		h.Write([]byte{mut})
		in.fingerprintLocked(t.Elem, h)

	case KindArray:
		in.fingerprintLocked(t.Elem, h)

	case KindNamed:
		info := in.namedInfoLocked(id)
		if info == nil {
			h.Write([]byte{0xFF})
			return
		}
		hashU32(h, uint32(info.Name))
		hashU32(h, uint32(len(info.Args)))
		for _, arg := range info.Args {
			in.fingerprintLocked(arg, h)
		}

	case KindStruct:
		info := in.structInfoLocked(id)
		if info == nil {
			h.Write([]byte{0xFF})
			return
		}
		if info.IsInstance() {
			h.Write([]byte{1})
			in.fingerprintLocked(info.DeclOf, h)
			hashU32(h, uint32(len(info.Args)))
			for _, arg := range info.Args {
				in.fingerprintLocked(arg, h)
			}
			return
		}
		h.Write([]byte{0})
		hashU32(h, uint32(info.Name))
		hashU32(h, uint32(info.Decl.File))
		hashU32(h, info.Decl.Start)
		hashU32(h, info.Decl.End)

	case KindAlias:
		info := in.aliasInfoLocked(id)
		if info == nil {
			h.Write([]byte{0xFF})
			return
		}
		hashU32(h, uint32(info.Name))
		in.fingerprintLocked(info.Target, h)

	case KindGenericParam:
		info := in.typeParamInfoLocked(id)
		if info == nil {
			h.Write([]byte{0xFF})
			return
		}
		hashU32(h, info.Owner)
		hashU32(h, info.Index)
		hashU32(h, uint32(info.Name))
	}
}

func hashU32(h hash.Hash64, v uint32) {
	h.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}
