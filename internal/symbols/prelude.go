package symbols

import "skarn/internal/types"

// TypePrelude returns the built-in type symbols exposed to every file.
// Each entry carries the interned TypeID so lookups resolve straight to a
// handle without a name table on the sema side.
func TypePrelude(ti *types.Interner) []PreludeEntry {
	b := ti.Builtins()
	entries := []PreludeEntry{
		{Name: "unit", Type: b.Unit},
		{Name: "bool", Type: b.Bool},
		{Name: "string", Type: b.String},
		{Name: "int", Type: b.Int},
		{Name: "int8", Type: ti.Intern(types.MakeInt(types.Width8))},
		{Name: "int16", Type: ti.Intern(types.MakeInt(types.Width16))},
		{Name: "int32", Type: ti.Intern(types.MakeInt(types.Width32))},
		{Name: "int64", Type: ti.Intern(types.MakeInt(types.Width64))},
		{Name: "uint", Type: b.Uint},
		{Name: "uint8", Type: ti.Intern(types.MakeUint(types.Width8))},
		{Name: "uint16", Type: ti.Intern(types.MakeUint(types.Width16))},
		{Name: "uint32", Type: ti.Intern(types.MakeUint(types.Width32))},
		{Name: "uint64", Type: ti.Intern(types.MakeUint(types.Width64))},
		{Name: "float", Type: b.Float},
		{Name: "float32", Type: ti.Intern(types.MakeFloat(types.Width32))},
		{Name: "float64", Type: ti.Intern(types.MakeFloat(types.Width64))},
	}
	for i := range entries {
		entries[i].Kind = SymbolType
		entries[i].Flags = SymbolFlagBuiltin
	}
	return entries
}
