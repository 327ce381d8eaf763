package dialect

import "fmt"

// Kind names a foreign language a skarn file may resemble.
type Kind uint8

const (
	Unknown Kind = iota
	Rust
	Go
	TypeScript
	Python

	kindCount
)

func (k Kind) String() string {
	switch k {
	case Rust:
		return "rust"
	case Go:
		return "go"
	case TypeScript:
		return "typescript"
	case Python:
		return "python"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}
