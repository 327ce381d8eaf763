package token

var keywords = map[string]Kind{
	"fn":       KwFn,
	"type":     KwType,
	"contract": KwContract,
	"impl":     KwImpl,
	"for":      KwFor,
	"let":      KwLet,
	"mut":      KwMut,
	"ref":      KwRef,
	"pub":      KwPub,
	"return":   KwReturn,
	"self":     KwSelfValue,
	"Self":     KwSelfType,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: 'self' и 'Self' — разные токены.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
