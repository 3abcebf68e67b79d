package js_ast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var ReservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true,

	// Strict mode
	"implements": true, "interface": true, "let": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true,
	"yield": true, "await": true,
}

// Whether "text" is usable as a binding name. "default" is not.
func IsIdentifier(text string) bool {
	if len(text) == 0 || ReservedWords[text] {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !IsIdentifierStart(codePoint) {
				return false
			}
		} else if !IsIdentifierContinue(codePoint) {
			return false
		}
	}
	return true
}

func IsIdentifierStart(codePoint rune) bool {
	switch {
	case codePoint == '_' || codePoint == '$':
		return true
	case codePoint < 0x7F:
		return (codePoint >= 'a' && codePoint <= 'z') || (codePoint >= 'A' && codePoint <= 'Z')
	}
	return unicode.IsLetter(codePoint) || unicode.Is(unicode.Nl, codePoint)
}

func IsIdentifierContinue(codePoint rune) bool {
	switch {
	case IsIdentifierStart(codePoint):
		return true
	case codePoint >= '0' && codePoint <= '9':
		return true
	case codePoint < 0x7F:
		return false

	// ZWNJ and ZWJ are allowed in identifiers
	case codePoint == 0x200C || codePoint == 0x200D:
		return true
	}
	return unicode.In(codePoint, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

// Turns arbitrary text such as a file path or an asset id into something
// that can appear in an identifier. Runs of invalid characters are dropped
// and the character after them is upper-cased, so "a-b.js" becomes "aBJs".
func ToIdentifier(text string) string {
	sb := strings.Builder{}
	upperNext := false
	for _, c := range text {
		if !IsIdentifierContinue(c) {
			upperNext = sb.Len() > 0
			continue
		}
		if sb.Len() == 0 && c >= '0' && c <= '9' {
			// Leading digits are dropped
			continue
		}
		if upperNext {
			c = unicode.ToUpper(c)
			upperNext = false
		}
		sb.WriteRune(c)
	}

	name := sb.String()
	if name == "" {
		return "_"
	}
	if !IsIdentifier(name) {
		return "_" + name
	}
	return name
}

// Like ToIdentifier but keeps leading digits, for use after a prefix
func ToIdentifierSuffix(text string) string {
	sb := strings.Builder{}
	for len(text) > 0 {
		c, width := utf8.DecodeRuneInString(text)
		text = text[width:]
		if IsIdentifierContinue(c) {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
