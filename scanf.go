package rjson

import (
	"encoding/hex"
	"regexp"
	"strconv"

	"github.com/chenzhuoyu/base64x"
)

// Dest is one typed extraction target consumed in order by Scanf's %specs,
// the typed-builder counterpart to Arg (see arg.go and spec.md §9).
type Dest struct {
	kind   destKind
	i      *int64
	u      *uint64
	f      *float64
	bo     *bool
	qOut   **string
	buf    []byte
	bufLen *int
	bOut   **[]byte
	tOut   *Token
	hook   func(buf []byte, tok Token) error
}

type destKind int

const (
	destInt destKind = iota
	destUint
	destFloat
	destBool
	destQ
	destStr
	destBytes
	destToken
	destHook
)

// IntDest builds a destination for d/i conversions.
func IntDest(out *int64) Dest { return Dest{kind: destInt, i: out} }

// UintDest builds a destination for u/o/x/X conversions.
func UintDest(out *uint64) Dest { return Dest{kind: destUint, u: out} }

// FloatDest builds a destination for f/lf/Lf conversions.
func FloatDest(out *float64) Dest { return Dest{kind: destFloat, f: out} }

// BoolDest builds a destination for the B conversion.
func BoolDest(out *bool) Dest { return Dest{kind: destBool, bo: out} }

// QDest builds a destination for the Q conversion: *out receives a
// freshly-allocated, unescaped copy of the matched string, or nil if the
// matched value was JSON null (in which case the spec.md-mandated match
// count for that spec is 0, not 1).
func QDest(out **string) Dest { return Dest{kind: destQ, qOut: out} }

// StrDest builds a destination for the s conversion: a fixed buffer
// receiving a raw copy of the matched string's stored text (escape
// sequences are copied as written, not decoded), bounded by len(buf); n, if non-nil, receives the number of bytes copied.
func StrDest(buf []byte, n *int) Dest { return Dest{kind: destStr, buf: buf, bufLen: n} }

// BytesDest builds a destination for the V (base64) and H (hex)
// conversions: *out receives a freshly-decoded byte slice.
func BytesDest(out **[]byte) Dest { return Dest{kind: destBytes, bOut: out} }

// TokenDest builds a destination for the T conversion: *out receives a copy
// of the matched Token regardless of its kind.
func TokenDest(out *Token) Dest { return Dest{kind: destToken, tOut: out} }

// HookDest builds a destination for the M conversion: fn is invoked with
// the source buffer and the matched Token.
func HookDest(fn func(buf []byte, tok Token) error) Dest { return Dest{kind: destHook, hook: fn} }

type specEntry struct {
	path string
	conv byte
}

var reScanSpec = regexp.MustCompile(`^%(lf|Lf|f|d|i|u|o|x|X|B|Q|s|V|H|T|M)`)

// compilePattern parses a scanf-style pattern ("{k1: %spec, k2: %spec}",
// "[%spec, %spec]", or a bare "%spec") into a flat list of (path, conv)
// pairs, using the same dotted/bracketed path shape the Walker produces.
// Structurally this is a second, much smaller recursive-descent parser over
// the same grammar walk.go implements, reused here for pattern text instead
// of document text — the two are deliberately kept as separate functions
// since a pattern's leaves are %specs, not JSON values.
func compilePattern(pattern string) ([]specEntry, error) {
	pp := &patParser{s: pattern}
	path := newPathBuf(JSONMaxPathLen)
	var entries []specEntry

	var rec func() error
	rec = func() error {
		pp.skipWS()
		if pp.eof() {
			return ErrInvalid
		}
		switch pp.cur() {
		case '{':
			pp.pos++
			pp.skipWS()
			if pp.cur() == '}' {
				pp.pos++
				return nil
			}
			for {
				pp.skipWS()
				key, err := pp.key()
				if err != nil {
					return err
				}
				pp.skipWS()
				if pp.eof() || pp.cur() != ':' {
					return ErrInvalid
				}
				pp.pos++
				pp.skipWS()
				_, restore := path.withMember(key, false)
				err = rec()
				restore()
				if err != nil {
					return err
				}
				pp.skipWS()
				if pp.eof() {
					return ErrInvalid
				}
				if pp.cur() == ',' {
					pp.pos++
					continue
				}
				if pp.cur() == '}' {
					pp.pos++
					break
				}
				return ErrInvalid
			}
			return nil
		case '[':
			pp.pos++
			pp.skipWS()
			if pp.cur() == ']' {
				pp.pos++
				return nil
			}
			idx := 0
			for {
				pp.skipWS()
				_, restore := path.withMember(itoa(idx), true)
				err := rec()
				restore()
				if err != nil {
					return err
				}
				idx++
				pp.skipWS()
				if pp.eof() {
					return ErrInvalid
				}
				if pp.cur() == ',' {
					pp.pos++
					continue
				}
				if pp.cur() == ']' {
					pp.pos++
					break
				}
				return ErrInvalid
			}
			return nil
		case '%':
			m := reScanSpec.FindStringSubmatch(pattern[pp.pos:])
			if m == nil {
				return ErrInvalid
			}
			conv := m[1][len(m[1])-1]
			entries = append(entries, specEntry{path: path.String(), conv: conv})
			pp.pos += len(m[0])
			return nil
		default:
			return ErrInvalid
		}
	}
	if err := rec(); err != nil {
		return nil, err
	}
	return entries, nil
}

// patParser is the tiny cursor compilePattern walks; it intentionally does
// not reuse walker since it scans pattern text (with %specs as leaves)
// rather than JSON value text.
type patParser struct {
	s   string
	pos int
}

func (p *patParser) eof() bool  { return p.pos >= len(p.s) }
func (p *patParser) cur() byte  { return p.s[p.pos] }
func (p *patParser) skipWS() {
	for !p.eof() && isWS(p.s[p.pos]) {
		p.pos++
	}
}

func (p *patParser) key() (string, error) {
	if p.eof() {
		return "", ErrInvalid
	}
	if p.cur() == '"' {
		start := p.pos + 1
		i := start
		for i < len(p.s) && p.s[i] != '"' {
			if p.s[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(p.s) {
			return "", ErrInvalid
		}
		key := p.s[start:i]
		p.pos = i + 1
		return key, nil
	}
	start := p.pos
	for p.pos < len(p.s) && isBareKeyByte(p.s[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", ErrInvalid
	}
	return p.s[start:p.pos], nil
}

// acceptsKind reports whether a matched Token's kind is convertible by
// conv, per the table in spec.md §4.C.
func acceptsKind(conv byte, k Kind) bool {
	switch conv {
	case 'd', 'i', 'u', 'o', 'x', 'X', 'f':
		return k == Number
	case 'B':
		return k == True || k == False
	case 'Q', 's', 'V', 'H':
		return k == String || (conv == 'Q' && k == Null)
	case 'T', 'M':
		return true
	}
	return false
}

// Scanf walks buf as relaxed JSON while matching pattern against the
// visited paths, converting each matched value into the corresponding Dest
// in dests (consumed in the order their %specs appear in pattern). It
// returns the number of specs that matched (received data) — see spec.md
// §4.C / §7 for which failure modes reduce this count without making Scanf
// itself fail.
func Scanf(buf []byte, pattern string, dests ...Dest) int {
	entries, err := compilePattern(pattern)
	if err != nil {
		return 0
	}
	done := make([]bool, len(entries))
	matched := 0

	cb := func(_ any, _ string, _ bool, path string, tok Token) bool {
		allDone := true
		for i, e := range entries {
			if done[i] {
				continue
			}
			allDone = false
			if e.path != path {
				continue
			}
			if (tok.Kind == ObjectBegin || tok.Kind == ArrayBegin) && (e.conv == 'T' || e.conv == 'M') {
				// Wait for the End event so T/M see the full
				// aggregate span instead of the empty Begin span.
				continue
			}
			if !acceptsKind(e.conv, tok.Kind) {
				done[i] = true
				continue
			}
			if i < len(dests) && convert(e.conv, buf, tok, dests[i]) {
				matched++
			}
			done[i] = true
		}
		return !allDone
	}
	Walk(buf, cb, nil)
	return matched
}

// convert performs one spec's value conversion into its Dest, returning
// whether it counts toward the match total (false for a failed numeric
// parse or a Q spec matched against null, both per spec.md §4.C/§7).
func convert(conv byte, buf []byte, tok Token, d Dest) bool {
	text := string(tok.Text(buf))
	switch conv {
	case 'd', 'i':
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil || d.i == nil {
			return false
		}
		*d.i = v
		return true
	case 'u':
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil || d.u == nil {
			return false
		}
		*d.u = v
		return true
	case 'o':
		v, err := strconv.ParseUint(text, 8, 64)
		if err != nil || d.u == nil {
			return false
		}
		*d.u = v
		return true
	case 'x', 'X':
		v, err := strconv.ParseUint(text, 16, 64)
		if err != nil || d.u == nil {
			return false
		}
		*d.u = v
		return true
	case 'f':
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || d.f == nil {
			return false
		}
		*d.f = v
		return true
	case 'B':
		if d.bo == nil {
			return false
		}
		*d.bo = tok.Kind == True
		return true
	case 'Q':
		if tok.Kind == Null {
			if d.qOut != nil {
				*d.qOut = nil
			}
			return false
		}
		s, err := unescapeJSONString(tok.Text(buf))
		if err != nil || d.qOut == nil {
			return false
		}
		str := string(s)
		*d.qOut = &str
		return true
	case 's':
		if d.buf == nil {
			return false
		}
		n := copy(d.buf, tok.Text(buf))
		if d.bufLen != nil {
			*d.bufLen = n
		}
		return true
	case 'V':
		dec, err := base64x.StdEncoding.DecodeString(text)
		if err != nil || d.bOut == nil {
			return false
		}
		*d.bOut = &dec
		return true
	case 'H':
		dec, err := hex.DecodeString(text)
		if err != nil || d.bOut == nil {
			return false
		}
		*d.bOut = &dec
		return true
	case 'T':
		if d.tOut == nil {
			return false
		}
		*d.tOut = tok
		return true
	case 'M':
		if d.hook == nil {
			return false
		}
		if err := d.hook(buf, tok); err != nil {
			return false
		}
		return true
	}
	return false
}

// ScanfArrayElem locates the index'th element of the array found at path
// (path relative to the root; an empty path means the root itself, if it is
// an array) and writes its Token into out. It returns -1 if index is out of
// range, 0 if the element is an empty string (a distinct "found but empty"
// signal, per spec.md §9), or the element's byte length otherwise — so
// callers should treat any non-negative return as "found."
func ScanfArrayElem(buf []byte, path string, index int, out *Token) int {
	n := 0
	target := path + "[" + itoa(index) + "]"
	seen := false
	Walk(buf, func(_ any, _ string, _ bool, p string, tok Token) bool {
		if p != target {
			return true
		}
		if tok.Kind == ObjectBegin || tok.Kind == ArrayBegin {
			return true
		}
		*out = tok
		seen = true
		if tok.Kind == String && tok.Len == 0 {
			n = 0
		} else {
			n = tok.Len
		}
		return true
	}, nil)
	if !seen {
		return -1
	}
	return n
}
