package rjson

// walker holds the state of a single Walk call: the input buffer, the
// current read position, the shared path buffer, and the user callback.
// One walker is used per top-level Walk invocation and never shared across
// goroutines, matching spec.md §5's synchronous, no-shared-state model.
type walker struct {
	buf   []byte
	pos   int
	depth int
	path  *pathBuf
	cb    Callback
	user  any
	abort bool
}

// Walk parses a single JSON value (optionally surrounded by whitespace)
// from buf, reporting a Begin/End event per value to cb. It returns the
// number of bytes consumed by the root value on success, Incomplete if buf
// is a strict prefix of a valid document, or Invalid on the first syntax
// violation. If cb returns false the walk stops early, and the returned
// Status then need not describe the document: a valid document can report
// Invalid.
func Walk(buf []byte, cb Callback, userData any) Status {
	if buf == nil {
		return Invalid
	}
	w := &walker{buf: buf, path: newPathBuf(JSONMaxPathLen), cb: cb, user: userData}
	w.skipWS()
	st := w.value("", false)
	if st < 0 {
		return st
	}
	return Status(w.pos)
}

func isWS(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func (w *walker) skipWS() {
	for w.pos < len(w.buf) && isWS(w.buf[w.pos]) {
		w.pos++
	}
}

func (w *walker) eof() bool { return w.pos >= len(w.buf) }

// emit invokes the callback, if any, and folds its return into the
// walker's abort flag. This early-stop facility has no analogue in the C
// source: a plain recursive-descent walk there always runs to completion,
// but Scanf needs to stop as soon as it has what it came for, so the
// callback here may return false to cut a Walk
// short. Callers that want full C parity simply always return true.
func (w *walker) emit(name string, hasName bool, path string, tok Token) {
	if w.abort || w.cb == nil {
		return
	}
	if !w.cb(w.user, name, hasName, path, tok) {
		w.abort = true
	}
}

// value parses one JSON value at the current position, reporting it under
// the given name (hasName false at the root) and the path already threaded
// through by the caller via withMember. It returns a negative Status on
// failure, otherwise the new read position (as an int, not itself a
// caller-facing Status).
func (w *walker) value(name string, hasName bool) Status {
	if w.abort {
		return Status(w.pos)
	}
	w.skipWS()
	if w.eof() {
		return Incomplete
	}
	w.depth++
	if w.depth > JSONMaxDepth {
		w.depth--
		return Invalid
	}
	defer func() { w.depth-- }()

	switch c := w.buf[w.pos]; {
	case c == '{':
		return w.object(name, hasName)
	case c == '[':
		return w.array(name, hasName)
	case c == '"':
		return w.stringValue(name, hasName)
	case c == 't':
		return w.literal("true", True, name, hasName)
	case c == 'f':
		return w.literal("false", False, name, hasName)
	case c == 'n':
		return w.literal("null", Null, name, hasName)
	case c == '-' || (c >= '0' && c <= '9'):
		return w.number(name, hasName)
	default:
		return Invalid
	}
}

func (w *walker) literal(text string, kind Kind, name string, hasName bool) Status {
	n := len(text)
	if w.pos+n > len(w.buf) {
		if matchesPrefix(w.buf[w.pos:], text) {
			return Incomplete
		}
		return Invalid
	}
	if string(w.buf[w.pos:w.pos+n]) != text {
		return Invalid
	}
	start := w.pos
	w.pos += n
	path := w.path.String()
	w.emit(name, hasName, path, Token{Kind: kind, Ptr: start, Len: n})
	return Status(w.pos)
}

func matchesPrefix(buf []byte, text string) bool {
	if len(buf) > len(text) {
		return false
	}
	return string(text[:len(buf)]) == string(buf)
}

// object parses `{ member (, member)* }`, reporting ObjectBegin at the
// opening delimiter and ObjectEnd spanning the whole aggregate.
func (w *walker) object(name string, hasName bool) Status {
	begin := w.pos
	path := w.path.String()
	w.emit(name, hasName, path, Token{Kind: ObjectBegin, Ptr: begin, Len: 0})
	w.pos++ // '{'
	w.skipWS()
	if w.eof() {
		return Incomplete
	}
	if w.buf[w.pos] == '}' {
		w.pos++
	} else {
		for {
			w.skipWS()
			if w.eof() {
				return Incomplete
			}
			key, st := w.key()
			if st < 0 {
				return st
			}
			w.skipWS()
			if w.eof() {
				return Incomplete
			}
			if w.buf[w.pos] != ':' {
				return Invalid
			}
			w.pos++
			w.skipWS()
			_, restore := w.path.withMember(key, false)
			st = w.value(key, true)
			restore()
			if st < 0 {
				return st
			}
			w.skipWS()
			if w.eof() {
				return Incomplete
			}
			if w.buf[w.pos] == ',' {
				w.pos++
				continue
			}
			if w.buf[w.pos] == '}' {
				w.pos++
				break
			}
			return Invalid
		}
	}
	end := w.pos
	w.emit(name, hasName, path, Token{Kind: ObjectEnd, Ptr: begin, Len: end - begin})
	return Status(w.pos)
}

// key parses either a quoted string or a bare identifier key, returning its
// unescaped-as-stored text.
func (w *walker) key() (string, Status) {
	if w.buf[w.pos] == '"' {
		tok, st := w.scanString()
		if st < 0 {
			return "", st
		}
		return string(tok.Text(w.buf)), Status(w.pos)
	}
	start := w.pos
	for w.pos < len(w.buf) && isBareKeyByte(w.buf[w.pos]) {
		w.pos++
	}
	if w.pos == start {
		if w.eof() {
			return "", Incomplete
		}
		return "", Invalid
	}
	return string(w.buf[start:w.pos]), Status(w.pos)
}

// isBareKeyByte reports whether c may appear in a bare (unquoted) object
// key: ASCII letters, digits, underscore, dollar, or any UTF-8 continuation
// or lead byte. Per spec.md §9 this intentionally does not validate that a
// lead byte is followed by a well-formed continuation sequence.
func isBareKeyByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '$':
		return true
	case c >= 0x80:
		return true
	}
	return false
}

func (w *walker) array(name string, hasName bool) Status {
	begin := w.pos
	path := w.path.String()
	w.emit(name, hasName, path, Token{Kind: ArrayBegin, Ptr: begin, Len: 0})
	w.pos++ // '['
	w.skipWS()
	if w.eof() {
		return Incomplete
	}
	if w.buf[w.pos] == ']' {
		w.pos++
	} else {
		idx := 0
		for {
			w.skipWS()
			if w.eof() {
				return Incomplete
			}
			elemName := itoa(idx)
			_, restore := w.path.withMember(elemName, true)
			st := w.value(elemName, true)
			restore()
			if st < 0 {
				return st
			}
			idx++
			w.skipWS()
			if w.eof() {
				return Incomplete
			}
			if w.buf[w.pos] == ',' {
				w.pos++
				continue
			}
			if w.buf[w.pos] == ']' {
				w.pos++
				break
			}
			return Invalid
		}
	}
	end := w.pos
	w.emit(name, hasName, path, Token{Kind: ArrayEnd, Ptr: begin, Len: end - begin})
	return Status(w.pos)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}

func (w *walker) stringValue(name string, hasName bool) Status {
	tok, st := w.scanString()
	if st < 0 {
		return st
	}
	path := w.path.String()
	w.emit(name, hasName, path, tok)
	return Status(w.pos)
}

// scanString parses a quoted string starting at the current '"' and
// returns a Token whose span covers the content between the quotes,
// unescaped-as-stored (i.e. escape sequences are left exactly as written;
// callers wanting the unescaped value use unescapeJSONString).
func (w *walker) scanString() (Token, Status) {
	w.pos++ // opening quote
	contentStart := w.pos
	for {
		if w.eof() {
			return Token{}, Incomplete
		}
		c := w.buf[w.pos]
		if c == '"' {
			tok := Token{Kind: String, Ptr: contentStart, Len: w.pos - contentStart}
			w.pos++
			return tok, Status(w.pos)
		}
		if c == '\\' {
			w.pos++
			if w.eof() {
				return Token{}, Incomplete
			}
			esc := w.buf[w.pos]
			switch esc {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				w.pos++
			case 'u':
				w.pos++
				if w.pos+4 > len(w.buf) {
					return Token{}, Incomplete
				}
				for i := 0; i < 4; i++ {
					if !isHexDigit(w.buf[w.pos+i]) {
						return Token{}, Invalid
					}
				}
				w.pos += 4
			default:
				return Token{}, Invalid
			}
			continue
		}
		if c < 0x20 {
			// \r\n and \t are permitted verbatim inside a string per
			// spec.md §4.A; other C0 controls are a syntax error.
			if c == '\t' || c == '\r' || c == '\n' {
				w.pos++
				continue
			}
			return Token{}, Invalid
		}
		w.pos++
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// number parses a JSON number per spec.md §4.A's grammar: optional '-',
// integer part ('0' or a non-zero-led digit run), optional fraction
// (requiring at least one digit after '.'), optional exponent.
func (w *walker) number(name string, hasName bool) Status {
	start := w.pos
	buf := w.buf
	pos := w.pos

	if pos < len(buf) && buf[pos] == '-' {
		pos++
	}
	if pos >= len(buf) {
		w.pos = pos
		return Incomplete
	}
	if buf[pos] == '0' {
		pos++
	} else if buf[pos] >= '1' && buf[pos] <= '9' {
		pos++
		for pos < len(buf) && isDigit(buf[pos]) {
			pos++
		}
	} else {
		w.pos = pos
		return Invalid
	}

	if pos < len(buf) && buf[pos] == '.' {
		pos++
		digits := 0
		for pos < len(buf) && isDigit(buf[pos]) {
			pos++
			digits++
		}
		if digits == 0 {
			if pos >= len(buf) {
				w.pos = pos
				return Incomplete
			}
			w.pos = pos
			return Invalid
		}
	}

	if pos < len(buf) && (buf[pos] == 'e' || buf[pos] == 'E') {
		epos := pos + 1
		if epos < len(buf) && (buf[epos] == '+' || buf[epos] == '-') {
			epos++
		}
		digits := 0
		for epos < len(buf) && isDigit(buf[epos]) {
			epos++
			digits++
		}
		if digits == 0 {
			if epos >= len(buf) {
				w.pos = epos
				return Incomplete
			}
			// 'e' with no following digit is not part of the number;
			// stop before it (e.g. a bare identifier value would be
			// invalid anyway, but "1e" alone at EOF already handled
			// above).
		} else {
			pos = epos
		}
	}

	// If we ran out of buffer exactly at a position where more digits
	// could still extend the number, the caller cannot yet tell whether
	// the number is finished; but JSON numbers are always terminated by
	// a delimiter (',', ']', '}', whitespace) that isn't itself part of
	// the grammar, so reaching EOF immediately after a structurally
	// complete number is only Incomplete if the number is the root value
	// with nothing after it — which Walk's caller resolves by treating a
	// fully-scanned number at EOF as complete.
	w.pos = pos
	tok := Token{Kind: Number, Ptr: start, Len: pos - start}
	path := w.path.String()
	w.emit(name, hasName, path, tok)
	return Status(w.pos)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
