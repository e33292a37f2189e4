package rjson

import "unicode/utf8"

// unescapeJSONString decodes the backslash escapes spec.md §4.A's String
// grammar permits (\" \\ \/ \b \f \n \r \t \uXXXX) from raw, which is a
// token's stored text (content between the quotes, escapes untouched).
// Bytes that are not part of an escape sequence, including the literal
// CR/LF/tab bytes the grammar allows unescaped inside a string, pass
// through unchanged.
func unescapeJSONString(raw []byte) ([]byte, error) {
	hasEscape := false
	for _, c := range raw {
		if c == '\\' {
			hasEscape = true
			break
		}
	}
	if !hasEscape {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}

	out := make([]byte, 0, len(raw))
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}
		if i+1 >= len(raw) {
			return nil, ErrInvalid
		}
		switch raw[i+1] {
		case '"':
			out = append(out, '"')
			i += 2
		case '\\':
			out = append(out, '\\')
			i += 2
		case '/':
			out = append(out, '/')
			i += 2
		case 'b':
			out = append(out, '\b')
			i += 2
		case 'f':
			out = append(out, '\f')
			i += 2
		case 'n':
			out = append(out, '\n')
			i += 2
		case 'r':
			out = append(out, '\r')
			i += 2
		case 't':
			out = append(out, '\t')
			i += 2
		case 'u':
			if i+6 > len(raw) {
				return nil, ErrInvalid
			}
			r, ok := hex4(raw[i+2 : i+6])
			if !ok {
				return nil, ErrInvalid
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], rune(r))
			out = append(out, buf[:n]...)
			i += 6
		default:
			return nil, ErrInvalid
		}
	}
	return out, nil
}

func hex4(b []byte) (int, bool) {
	v := 0
	for _, c := range b {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}
