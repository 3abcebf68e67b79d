package js_parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

func (p *parser) numberValue(n *sitter.Node) float64 {
	value, ok := parseNumber(p.text(n))
	if !ok {
		p.fail(n, "Invalid number")
	}
	return value
}

func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	if len(text) > 1 && text[0] == '0' {
		base := 0
		digits := text[2:]
		switch text[1] {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		default:
			// Legacy octal literals like "017" unless a digit rules that out
			if strings.IndexAny(text, "89.eE") < 0 {
				base = 8
				digits = text[1:]
			}
		}
		if base != 0 {
			return parseRadix(digits, base)
		}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Overflow still yields the right infinity
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return value, true
		}
		return 0, false
	}
	return value, true
}

func parseRadix(digits string, base int) (float64, bool) {
	if digits == "" {
		return 0, false
	}
	value := 0.0
	for _, c := range digits {
		var digit int
		switch {
		case c >= '0' && c <= '9':
			digit = int(c - '0')
		case c >= 'a' && c <= 'f':
			digit = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			digit = int(c-'A') + 10
		default:
			return 0, false
		}
		if digit >= base {
			return 0, false
		}
		value = value*float64(base) + float64(digit)
	}
	return value, true
}

// Strips the "n" suffix and separators. Non-decimal radixes stay as written.
func bigIntValue(text string) string {
	return strings.ReplaceAll(text[:len(text)-1], "_", "")
}

func (p *parser) stringValue(n *sitter.Node) string {
	text := p.text(n)
	if len(text) < 2 {
		p.fail(n, "Invalid string")
	}
	value, ok := decodeEscapes(text[1 : len(text)-1])
	if !ok {
		p.fail(n, "Invalid escape sequence")
	}
	return value
}

func hexValue(text string) (rune, bool) {
	value, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(value), true
}

// Decodes the escape sequences of a string literal body. Lone surrogates
// cannot be represented in UTF-8 and decode to U+FFFD.
func decodeEscapes(text string) (string, bool) {
	if strings.IndexByte(text, '\\') < 0 {
		return text, true
	}

	var sb strings.Builder
	sb.Grow(len(text))
	var pendingHigh rune

	flushHigh := func() {
		if pendingHigh != 0 {
			sb.WriteRune(utf8.RuneError)
			pendingHigh = 0
		}
	}

	writeUnit := func(c rune) {
		switch {
		case c >= 0xD800 && c <= 0xDBFF:
			flushHigh()
			pendingHigh = c
		case c >= 0xDC00 && c <= 0xDFFF:
			if pendingHigh != 0 {
				sb.WriteRune((pendingHigh-0xD800)<<10 + (c - 0xDC00) + 0x10000)
				pendingHigh = 0
			} else {
				sb.WriteRune(utf8.RuneError)
			}
		default:
			flushHigh()
			sb.WriteRune(c)
		}
	}

	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])
		if c != '\\' {
			flushHigh()
			sb.WriteString(text[i : i+width])
			i += width
			continue
		}
		i++
		if i >= len(text) {
			return "", false
		}
		c, width = utf8.DecodeRuneInString(text[i:])
		i += width

		switch c {
		case 'b':
			writeUnit('\b')
		case 'f':
			writeUnit('\f')
		case 'n':
			writeUnit('\n')
		case 'r':
			writeUnit('\r')
		case 't':
			writeUnit('\t')
		case 'v':
			writeUnit('\v')

		case '\r':
			// Line continuation
			if i < len(text) && text[i] == '\n' {
				i++
			}
		case '\n', '\u2028', '\u2029':

		case 'x':
			if i+2 > len(text) {
				return "", false
			}
			value, ok := hexValue(text[i : i+2])
			if !ok {
				return "", false
			}
			writeUnit(value)
			i += 2

		case 'u':
			if i < len(text) && text[i] == '{' {
				end := strings.IndexByte(text[i:], '}')
				if end < 0 {
					return "", false
				}
				value, ok := hexValue(text[i+1 : i+end])
				if !ok || value > utf8.MaxRune {
					return "", false
				}
				writeUnit(value)
				i += end + 1
			} else {
				if i+4 > len(text) {
					return "", false
				}
				value, ok := hexValue(text[i : i+4])
				if !ok {
					return "", false
				}
				writeUnit(value)
				i += 4
			}

		case '0', '1', '2', '3', '4', '5', '6', '7':
			// "\0" and legacy octal escapes of up to three digits
			value := c - '0'
			limit := 2
			if c > '3' {
				limit = 1
			}
			for ; limit > 0 && i < len(text) && text[i] >= '0' && text[i] <= '7'; limit-- {
				value = value*8 + rune(text[i]-'0')
				i++
			}
			writeUnit(value)

		default:
			writeUnit(c)
		}
	}
	flushHigh()
	return sb.String(), true
}
