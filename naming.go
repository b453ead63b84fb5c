package xvmgen

import (
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// snakeCase converts a camelCase or PascalCase identifier to snake_case.
// Acronyms stay together: "ERC20Transfer" becomes "erc20_transfer".
func snakeCase(s string) string {
	s = sanitizeIdent(s)
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// upperSnakeCase converts an identifier to SCREAMING_SNAKE_CASE.
func upperSnakeCase(s string) string {
	return strings.ToUpper(snakeCase(s))
}

// camelCase converts a snake_case identifier to lowerCamelCase.
func camelCase(s string) string {
	upper := pascalCase(s)
	if upper == "" {
		return upper
	}
	return strings.ToLower(upper[:1]) + upper[1:]
}

// pascalCase converts a snake_case identifier to UpperCamelCase.
func pascalCase(s string) string {
	return abi.ToCamelCase(sanitizeIdent(s))
}

// sanitizeIdent replaces characters that cannot appear in an identifier,
// such as the "::" of ink! trait message labels, with underscores.
func sanitizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, strings.ReplaceAll(s, "::", "_"))
}

var rustKeywords = map[string]bool{
	"abstract": true, "as": true, "async": true, "await": true, "box": true, "break": true,
	"const": true, "continue": true, "crate": true, "dyn": true, "else": true,
	"enum": true, "extern": true, "false": true, "fn": true, "for": true,
	"if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true,
	"ref": true, "return": true, "static": true, "struct": true, "trait": true,
	"true": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "yield": true,
}

var solidityKeywords = map[string]bool{
	"address": true, "bool": true, "break": true, "bytes": true, "calldata": true,
	"constant": true, "continue": true, "contract": true, "delete": true,
	"do": true, "else": true, "emit": true, "enum": true, "event": true,
	"external": true, "for": true, "function": true, "if": true, "import": true,
	"indexed": true, "interface": true, "internal": true, "library": true,
	"mapping": true, "memory": true, "modifier": true, "new": true,
	"payable": true, "private": true, "public": true, "pure": true,
	"return": true, "returns": true, "storage": true, "string": true,
	"struct": true, "this": true, "type": true, "view": true, "while": true,
}

// rustIdent returns a snake_case Rust identifier for name, using the raw
// identifier syntax for keywords.
func rustIdent(name string) string {
	id := snakeCase(name)
	switch {
	case id == "self" || id == "super" || id == "crate":
		return id + "_"
	case rustKeywords[id]:
		return "r#" + id
	}
	return id
}

// solidityIdent returns a Solidity identifier for name. Keywords, which
// Solidity cannot escape, get a trailing underscore.
func solidityIdent(name string) string {
	id := sanitizeIdent(name)
	if solidityKeywords[id] {
		return id + "_"
	}
	return id
}

// namespace tracks the identifiers taken in one scope of the generated
// source. Reserved names are claimed by the fixed parts of the templates
// and map to an empty source name.
type namespace struct {
	scope string
	taken map[string]string
}

func newNamespace(scope string, reserved ...string) *namespace {
	ns := &namespace{scope: scope, taken: make(map[string]string, len(reserved))}
	for _, name := range reserved {
		ns.taken[name] = ""
	}
	return ns
}

// claim records name as generated from source. It fails when name is
// reserved or was generated from another source name.
func (ns *namespace) claim(kind, name, source string) error {
	if first, ok := ns.taken[name]; ok {
		return &IdentifierError{Kind: kind, Name: name, First: first, Second: source, Scope: ns.scope}
	}
	ns.taken[name] = source
	return nil
}
