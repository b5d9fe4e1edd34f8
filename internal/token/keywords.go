package token

var keywords = map[string]Kind{
	"let":      KwLet,
	"function": KwFunction,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"true":     KwTrue,
	"false":    KwFalse,
}

// LookupKeyword reports whether ident is a keyword. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
