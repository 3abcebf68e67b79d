package helpers

import "unicode/utf8"

const hexChars = "0123456789ABCDEF"
const firstASCII = 0x20
const lastASCII = 0x7E

func canPrintWithoutEscape(c rune, quoteChar byte, asciiOnly bool) bool {
	if c <= lastASCII {
		return c >= firstASCII && c != '\\' && c != rune(quoteChar)
	}
	return !asciiOnly && c != '\uFEFF' && c != '\u2028' && c != '\u2029' && c != utf8.RuneError
}

// Produces a JavaScript string literal, quotes included
func QuoteForJS(text string, asciiOnly bool) []byte {
	return appendQuoted(make([]byte, 0, len(text)+2), text, '"', asciiOnly)
}

func QuoteSingle(text string, asciiOnly bool) []byte {
	return appendQuoted(make([]byte, 0, len(text)+2), text, '\'', asciiOnly)
}

func appendQuoted(bytes []byte, text string, quoteChar byte, asciiOnly bool) []byte {
	bytes = append(bytes, quoteChar)

	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])

		// Fast path: a run of characters that don't need escaping
		if canPrintWithoutEscape(c, quoteChar, asciiOnly) {
			start := i
			for i < len(text) {
				c, width = utf8.DecodeRuneInString(text[i:])
				if !canPrintWithoutEscape(c, quoteChar, asciiOnly) {
					break
				}
				i += width
			}
			bytes = append(bytes, text[start:i]...)
			continue
		}

		i += width
		switch c {
		case '\b':
			bytes = append(bytes, "\\b"...)
		case '\f':
			bytes = append(bytes, "\\f"...)
		case '\n':
			bytes = append(bytes, "\\n"...)
		case '\r':
			bytes = append(bytes, "\\r"...)
		case '\t':
			bytes = append(bytes, "\\t"...)
		case '\\':
			bytes = append(bytes, "\\\\"...)
		case rune(quoteChar):
			bytes = append(bytes, '\\', quoteChar)
		default:
			if c == utf8.RuneError && width == 1 {
				// Invalid UTF-8 is passed through as the raw byte's code point
				c = rune(text[i-1])
			}
			if c <= 0xFFFF {
				bytes = append(bytes, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
			} else {
				c -= 0x10000
				lo := 0xD800 + ((c >> 10) & 0x3FF)
				hi := 0xDC00 + (c & 0x3FF)
				bytes = append(bytes,
					'\\', 'u', hexChars[lo>>12], hexChars[(lo>>8)&15], hexChars[(lo>>4)&15], hexChars[lo&15],
					'\\', 'u', hexChars[hi>>12], hexChars[(hi>>8)&15], hexChars[(hi>>4)&15], hexChars[hi&15])
			}
		}
	}

	return append(bytes, quoteChar)
}
