package types

import (
	"fmt"
	"strings"

	"skarn/internal/source"
)

// TypeString renders a type for diagnostics ("&mut Point<uint64>").
func (in *Interner) TypeString(id TypeID, names *source.Interner) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.labelLocked(id, names)
}

func (in *Interner) labelLocked(id TypeID, names *source.Interner) string {
	tt, ok := in.lookupLocked(id)
	if !ok {
		return "{unknown}"
	}

	switch tt.Kind {
	case KindError:
		return "{error}"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return widthLabel("int", tt.Width)
	case KindUint:
		return widthLabel("uint", tt.Width)
	case KindFloat:
		return widthLabel("float", tt.Width)
	case KindSelf:
		return "Self"

	case KindReference:
		if tt.Mutable {
			return "&mut " + in.labelLocked(tt.Elem, names)
		}
		return "&" + in.labelLocked(tt.Elem, names)

	case KindArray:
		return in.labelLocked(tt.Elem, names) + "[]"

	case KindNamed:
		info := in.namedInfoLocked(id)
		if info == nil {
			return "{unknown}"
		}
		return in.applied(nameLabel(info.Name, names), info.Args, names)

	case KindStruct:
		info := in.structInfoLocked(id)
		if info == nil {
			return "{unknown}"
		}
		if info.IsInstance() {
			return in.applied(nameLabel(info.Name, names), info.Args, names)
		}
		return in.applied(nameLabel(info.Name, names), info.TypeParams, names)

	case KindAlias:
		info := in.aliasInfoLocked(id)
		if info == nil {
			return "{unknown}"
		}
		return nameLabel(info.Name, names)

	case KindGenericParam:
		info := in.typeParamInfoLocked(id)
		if info == nil {
			return "{unknown}"
		}
		return nameLabel(info.Name, names)

	default:
		return fmt.Sprintf("{%s}", tt.Kind)
	}
}

func (in *Interner) applied(base string, args []TypeID, names *source.Interner) string {
	if len(args) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('<')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(in.labelLocked(arg, names))
	}
	b.WriteByte('>')
	return b.String()
}

func nameLabel(id source.StringID, names *source.Interner) string {
	if names == nil {
		return fmt.Sprintf("#%d", id)
	}
	if s, ok := names.Lookup(id); ok && s != "" {
		return s
	}
	return fmt.Sprintf("#%d", id)
}

func widthLabel(base string, w Width) string {
	if w == WidthAny {
		return base
	}
	return fmt.Sprintf("%s%d", base, w)
}
