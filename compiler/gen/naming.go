package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"API", "ASCII", "CPU", "EOF", "HTML", "HTTP", "ID", "IP", "JSON",
		"PHP", "RPC", "SQL", "TCP", "TLS", "UDP", "UI", "URI", "URL",
		"UTF8", "UUID", "VM", "XML",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts the given catalogue name to PascalCase.
//
//	op_add     => OpAdd
//	func_id    => FuncID
//	cnst_error_ => CnstError
func pascal(s string) string {
	return pascalWords(strings.FieldsFunc(s, isSeparator))
}

// camel converts the given catalogue name to lowerCamelCase.
//
//	auto_inserted => autoInserted
//	id_map        => idMap
func camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[0]) + pascalWords(words[1:])
}

// privateField returns the unexported struct field name for a field
// declared with the private marker.
func privateField(name string) string {
	s := camel(strings.TrimSuffix(name, "_"))
	if token.IsKeyword(s) {
		return s + "_"
	}
	return s
}

// isIdent reports whether s is usable as a Go identifier.
func isIdent(s string) bool {
	return token.IsIdentifier(s) && !token.IsKeyword(s)
}
