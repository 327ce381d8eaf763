// Package mono rewrites resolved type handles: generic parameters are
// replaced by concrete arguments so one checked signature serves every
// instantiation. Substitution touches resolved handles only; written forms,
// names, and spans pass through untouched.
package mono

import (
	"fmt"

	"skarn/internal/sema"
	"skarn/internal/types"
)

// TypeMapping pairs generic-parameter handles with their replacements.
// Handles absent from the mapping are treated as already concrete and
// pass through unchanged.
type TypeMapping map[types.TypeID]types.TypeID

// Subst applies a TypeMapping to resolved handles. Configure the struct
// fully before the first Type call: results are memoized.
type Subst struct {
	Types   *types.Interner
	Mapping TypeMapping
	// Self, when valid, replaces the abstract Self placeholder. Set it
	// when specializing contract signatures against an implementing type.
	Self types.TypeID

	cache map[types.TypeID]types.TypeID
}

// ForStruct builds the substitution that instantiates decl with args.
func ForStruct(ti *types.Interner, decl types.TypeID, args []types.TypeID) (*Subst, error) {
	info, ok := ti.StructInfo(decl)
	if !ok {
		return nil, fmt.Errorf("mono: type %d is not a struct", decl)
	}
	if info.IsInstance() {
		return nil, fmt.Errorf("mono: type %d is an instantiation, want the declaration", decl)
	}
	if len(info.TypeParams) != len(args) {
		return nil, fmt.Errorf("mono: arity mismatch: %d parameters, %d arguments", len(info.TypeParams), len(args))
	}
	mapping := make(TypeMapping, len(args))
	for i, param := range info.TypeParams {
		mapping[param] = args[i]
	}
	return &Subst{Types: ti, Mapping: mapping}, nil
}

// Type applies the substitution to one handle. Handles that contain none of
// the mapped parameters come back unchanged, same ID.
func (s *Subst) Type(id types.TypeID) types.TypeID {
	if s == nil || s.Types == nil || !id.IsValid() {
		return id
	}
	if s.cache == nil {
		s.cache = make(map[types.TypeID]types.TypeID, 32)
	} else if cached, ok := s.cache[id]; ok {
		return cached
	}

	out := s.typeNoCache(id)
	s.cache[id] = out
	return out
}

func (s *Subst) typeNoCache(id types.TypeID) types.TypeID {
	tt, ok := s.Types.Lookup(id)
	if !ok {
		return id
	}

	switch tt.Kind {
	case types.KindGenericParam:
		if repl, ok := s.Mapping[id]; ok && repl.IsValid() {
			return repl
		}
		return id

	case types.KindSelf:
		if s.Self.IsValid() {
			return s.Self
		}
		return id

	case types.KindReference, types.KindArray:
		elem := s.Type(tt.Elem)
		if elem == tt.Elem {
			return id
		}
		clone := tt
		clone.Elem = elem
		return s.Types.Intern(clone)

	case types.KindStruct:
		info, ok := s.Types.StructInfo(id)
		if !ok {
			return id
		}
		if !info.IsInstance() {
			// A declaration becomes its instantiation when the mapping
			// covers every one of its parameters. Partial coverage
			// leaves it alone: there is no such thing as Box<half>.
			if len(info.TypeParams) == 0 {
				return id
			}
			args := make([]types.TypeID, len(info.TypeParams))
			for i, param := range info.TypeParams {
				repl, ok := s.Mapping[param]
				if !ok || !repl.IsValid() {
					return id
				}
				args[i] = repl
			}
			return s.Types.InstantiateStruct(id, args)
		}
		args := make([]types.TypeID, len(info.Args))
		changed := false
		for i, arg := range info.Args {
			args[i] = s.Type(arg)
			changed = changed || args[i] != arg
		}
		if !changed {
			return id
		}
		return s.Types.InstantiateStruct(info.DeclOf, args)

	default:
		// Primitives, aliases, written forms: nothing to map.
		return id
	}
}

// ApplyParams rewrites the resolved types of a parameter list and returns a
// fresh slice. Names, spans, flags, and written forms are copied verbatim:
// substitution refines what a parameter means, never what was typed.
func (s *Subst) ApplyParams(params []sema.Param) []sema.Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]sema.Param, len(params))
	copy(out, params)
	for i := range out {
		out[i].Type = s.Type(out[i].Type)
	}
	return out
}

// ApplySig specializes a whole signature: owner, parameters, return.
func (s *Subst) ApplySig(sig sema.FnSig) sema.FnSig {
	sig.Owner = s.Type(sig.Owner)
	sig.Params = s.ApplyParams(sig.Params)
	sig.Return = s.Type(sig.Return)
	return sig
}
