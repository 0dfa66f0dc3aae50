package model

import (
	"go/token"
	"unicode"
	"unicode/utf8"
)

// GoName is the exported Go identifier of a native top-level name. Names
// starting with an underscore are private in the headers and stay unexported.
func GoName(name string) string {
	if name == "" || name[0] == '_' {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// SafeIdent appends an underscore to Go keywords.
func SafeIdent(name string) string {
	if token.IsKeyword(name) {
		return name + "_"
	}
	return name
}
