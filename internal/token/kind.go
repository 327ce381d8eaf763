package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwType represents the 'type' keyword.
	KwType // type
	// KwContract represents the 'contract' keyword.
	KwContract // contract
	// KwImpl represents the 'impl' keyword.
	KwImpl // impl
	// KwFor represents the 'for' keyword (impl Contract for T).
	KwFor // for
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwMut represents the 'mut' keyword.
	KwMut // mut
	// KwRef represents the 'ref' keyword.
	KwRef // ref
	// KwPub represents the 'pub' keyword.
	KwPub // pub
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwSelfValue represents the 'self' receiver keyword.
	KwSelfValue // self
	// KwSelfType represents the 'Self' type keyword.
	KwSelfType // Self
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false

	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating-point literal.
	FloatLit
	// StringLit represents a string literal.
	StringLit

	// LParen..Gt are structural punctuation the parser matches on.
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Lt        // <
	Gt        // >
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Arrow     // ->
	Amp       // &
	Assign    // =

	// Op is any other operator character ("+", "*", "!", ...). Declaration
	// parsing never matches on it; skipped bodies still lex cleanly.
	Op
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case KwFn:
		return "fn"
	case KwType:
		return "type"
	case KwContract:
		return "contract"
	case KwImpl:
		return "impl"
	case KwFor:
		return "for"
	case KwLet:
		return "let"
	case KwMut:
		return "mut"
	case KwRef:
		return "ref"
	case KwPub:
		return "pub"
	case KwReturn:
		return "return"
	case KwSelfValue:
		return "self"
	case KwSelfType:
		return "Self"
	case KwTrue:
		return "true"
	case KwFalse:
		return "false"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case StringLit:
		return "string literal"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Lt:
		return "'<'"
	case Gt:
		return "'>'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case Semicolon:
		return "';'"
	case Arrow:
		return "'->'"
	case Amp:
		return "'&'"
	case Assign:
		return "'='"
	case Op:
		return "operator"
	default:
		return "unknown"
	}
}
