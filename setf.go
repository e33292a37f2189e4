package rjson

import "strings"

// locateSpan finds the full span of the value Walk would visit at path,
// waiting for ObjectEnd/ArrayEnd rather than the empty-span Begin event so
// callers always see the aggregate's whole extent.
func locateSpan(buf []byte, path string) (tok Token, hasName bool, ok bool) {
	Walk(buf, func(_ any, name string, hn bool, p string, t Token) bool {
		if p != path {
			return true
		}
		if t.Kind == ObjectBegin || t.Kind == ArrayBegin {
			return true
		}
		tok, hasName, ok = t, hn, true
		return true
	}, nil)
	return
}

func skipWSBack(buf []byte, i int) int {
	for i > 0 && isWS(buf[i-1]) {
		i--
	}
	return i
}

func skipWSFwd(buf []byte, i int) int {
	for i < len(buf) && isWS(buf[i]) {
		i++
	}
	return i
}

func hasNonWS(b []byte) bool {
	for _, c := range b {
		if !isWS(c) {
			return true
		}
	}
	return false
}

// spliceBeforeClose inserts new content just after an aggregate's last
// non-whitespace byte (rather than immediately before its closing
// delimiter), so existing interior padding ("[ 1 ]") ends up surrounding
// the whole updated content ("[ 1,2 ]") instead of being shoved outside
// it. openPtr/closePos are the aggregate's opening/closing delimiter
// positions; insert is called with whether the aggregate had any content
// before the splice.
func spliceBeforeClose(buf []byte, sink Sink, openPtr, closePos int, insert func(nonEmpty bool)) {
	contentEnd := skipWSBack(buf, closePos)
	nonEmpty := hasNonWS(buf[openPtr+1 : closePos])
	writeAll(sink, buf[:contentEnd])
	insert(nonEmpty)
	writeAll(sink, buf[contentEnd:])
}

// memberStart walks valueStart back over "key" ":" to the start of an
// object member, so deleting a member removes the key along with the
// value. It assumes a well-formed preceding key (quoted or bare) and does
// not account for an escaped quote anywhere inside a quoted key: the
// backward scan stops at the first '"' it meets — an accepted
// simplification noted in DESIGN.md.
func memberStart(buf []byte, valueStart int) int {
	i := skipWSBack(buf, valueStart)
	if i == 0 || buf[i-1] != ':' {
		return valueStart
	}
	i = skipWSBack(buf, i-1)
	if i == 0 {
		return valueStart
	}
	if buf[i-1] == '"' {
		j := i - 2
		for j >= 0 && buf[j] != '"' {
			j--
		}
		if j < 0 {
			return valueStart
		}
		return j
	}
	j := i
	for j > 0 && isBareKeyByte(buf[j-1]) {
		j--
	}
	return j
}

// deleteRange extends a matched span to also remove one adjacent comma (a
// preceding one if present, else a following one), so the surrounding
// container stays well-formed; a comma-less lone element is removed on its
// own, per spec.md §9's open-question callout.
func deleteRange(buf []byte, tok Token, hasName bool) (start, end int) {
	start = tok.Ptr
	if hasName {
		start = memberStart(buf, tok.Ptr)
	}
	end = tok.End()
	if p := skipWSBack(buf, start); p > 0 && buf[p-1] == ',' {
		start = p - 1
		return
	}
	if q := skipWSFwd(buf, end); q < len(buf) && buf[q] == ',' {
		end = q + 1
	}
	return
}

func writeAll(sink Sink, b []byte) {
	sink.write(b)
}

// setf is the shared engine behind Setf and Delete. format == nil means
// delete; the path is otherwise identical between the two.
func setf(buf []byte, sink Sink, path string, format *string, args []Arg) int {
	switch {
	case path == "":
		tok, _, ok := locateSpan(buf, "")
		if !ok {
			writeAll(sink, buf)
			return 0
		}
		writeAll(sink, buf[:tok.Ptr])
		if format != nil {
			Fprintf(sink, *format, args...)
		}
		writeAll(sink, buf[tok.End():])
		return 1

	case strings.HasSuffix(path, "[]"):
		arrPath := path[:len(path)-2]
		tok, _, ok := locateSpan(buf, arrPath)
		if !ok || tok.Kind != ArrayEnd {
			writeAll(sink, buf)
			return 0
		}
		spliceBeforeClose(buf, sink, tok.Ptr, tok.End()-1, func(nonEmpty bool) {
			if nonEmpty {
				writeAll(sink, []byte(","))
			}
			if format != nil {
				Fprintf(sink, *format, args...)
			}
		})
		return 0

	default:
		tok, hasName, ok := locateSpan(buf, path)
		if ok {
			if format != nil {
				writeAll(sink, buf[:tok.Ptr])
				Fprintf(sink, *format, args...)
				writeAll(sink, buf[tok.End():])
				return 1
			}
			start, end := deleteRange(buf, tok, hasName)
			writeAll(sink, buf[:start])
			writeAll(sink, buf[end:])
			return 1
		}
		if format == nil {
			writeAll(sink, buf)
			return 0
		}
		if createNested(buf, sink, path, *format, args) {
			return 0
		}
		writeAll(sink, buf)
		return 0
	}
}

// Setf locates the value at path and replaces it with the result of
// running format/args through the emitter, or appends/creates it per
// spec.md §4.D's policies for a "path[]" append target and a missing
// nested object path. It returns 1 if path existed before the call, 0
// otherwise (append and auto-create always report 0, since nothing at
// that exact path existed to match).
func Setf(buf []byte, sink Sink, path, format string, args ...Arg) int {
	return setf(buf, sink, path, &format, args)
}

// Delete removes the value at path, along with one adjacent separator so
// the surrounding container stays well-formed. Deleting a path that does
// not exist leaves the buffer unchanged and returns 0.
func Delete(buf []byte, sink Sink, path string) int {
	return setf(buf, sink, path, nil, nil)
}

// splitMemberPath splits a plain dotted member path (".d.e") into its
// component keys. Array-indexed segments are not supported by the
// auto-create path, matching the single worked example spec.md gives
// (".d.e" inside an object) — createNested simply declines for anything
// else.
func splitMemberPath(path string) ([]string, bool) {
	if path == "" || path[0] != '.' {
		return nil, false
	}
	parts := strings.Split(path[1:], ".")
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, "[]") {
			return nil, false
		}
	}
	return parts, true
}

// createNested finds the longest existing object ancestor of path and
// splices in the missing intermediate object(s) plus the leaf value just
// before that ancestor's closing brace, matching spec.md §8's
// `setf(..., ".d.e", "%d", 8)` scenario.
func createNested(buf []byte, sink Sink, path, format string, args []Arg) bool {
	keys, ok := splitMemberPath(path)
	if !ok {
		return false
	}
	for k := len(keys) - 1; k >= 0; k-- {
		parentPath := ""
		if k > 0 {
			parentPath = "." + strings.Join(keys[:k], ".")
		}
		tok, _, ok := locateSpan(buf, parentPath)
		if !ok || tok.Kind != ObjectEnd {
			continue
		}
		spliceBeforeClose(buf, sink, tok.Ptr, tok.End()-1, func(nonEmpty bool) {
			if nonEmpty {
				writeAll(sink, []byte(","))
			}
			writeNested(sink, keys[k:], format, args)
		})
		return true
	}
	return false
}

// writeNested emits `"k1":{"k2":{...:leaf}}` for the given key chain,
// compactly (no inserted whitespace), closing one brace per intermediate
// key.
func writeNested(sink Sink, keys []string, format string, args []Arg) {
	for i, k := range keys {
		writeAll(sink, []byte(`"`))
		writeAll(sink, appendJSONEscaped(nil, []byte(k)))
		writeAll(sink, []byte(`":`))
		if i < len(keys)-1 {
			writeAll(sink, []byte(`{`))
		}
	}
	Fprintf(sink, format, args...)
	for range keys[:len(keys)-1] {
		writeAll(sink, []byte(`}`))
	}
}

// Handle is an opaque cursor into a NextKey/NextElem enumeration; the zero
// Handle starts enumeration from the beginning.
type Handle struct {
	pos int
}

// directChild is one immediate member/element of a located container.
type directChild struct {
	name string
	tok  Token
}

// directChildren re-walks the container's own span as a standalone
// document, collecting its immediate members/elements only (nested
// descendants are skipped by depth — depth 0 is the container itself,
// depth 1 is a direct child, anything deeper is ignored). The returned
// tokens are shifted back to offsets into buf.
func directChildren(buf []byte, tok Token) []directChild {
	sub := buf[tok.Ptr:tok.End()]
	var out []directChild
	depth := 0
	var pendingName string
	Walk(sub, func(_ any, name string, _ bool, _ string, t Token) bool {
		t.Ptr += tok.Ptr
		switch t.Kind {
		case ObjectBegin, ArrayBegin:
			if depth == 1 {
				pendingName = name
			}
			depth++
		case ObjectEnd, ArrayEnd:
			depth--
			if depth == 1 {
				out = append(out, directChild{name: pendingName, tok: t})
			}
		default:
			if depth == 1 {
				out = append(out, directChild{name: name, tok: t})
			}
		}
		return true
	}, nil)
	return out
}

// NextKey enumerates the members of the object at path. Passing the zero
// Handle starts enumeration; ok is false once every member has been
// returned (or if path does not locate an object).
func NextKey(buf []byte, path string, h Handle) (key string, val Token, next Handle, ok bool) {
	tok, _, found := locateSpan(buf, path)
	if !found || tok.Kind != ObjectEnd {
		return "", Token{}, Handle{}, false
	}
	children := directChildren(buf, tok)
	if h.pos >= len(children) {
		return "", Token{}, Handle{}, false
	}
	c := children[h.pos]
	return c.name, c.tok, Handle{pos: h.pos + 1}, true
}

// NextElem is NextKey's analogue for arrays: it returns the element's
// index (as the array saw it) alongside its value token.
func NextElem(buf []byte, path string, h Handle) (index int, val Token, next Handle, ok bool) {
	tok, _, found := locateSpan(buf, path)
	if !found || tok.Kind != ArrayEnd {
		return 0, Token{}, Handle{}, false
	}
	children := directChildren(buf, tok)
	if h.pos >= len(children) {
		return 0, Token{}, Handle{}, false
	}
	c := children[h.pos]
	idx, _ := atoiFast(c.name)
	return idx, c.tok, Handle{pos: h.pos + 1}, true
}

func atoiFast(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}
