package rjson

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/chenzhuoyu/base64x"
	"github.com/modern-go/concurrent"
)

// Decode and Encode are a reflect-based convenience layer over the core
// Walker/Emitter, grounded on the teacher's Unmarshal/Marshal
// (ini.go/decode.go/encode.go): a struct-field cache keyed by type,
// populated once per type and read-through afterward, feeding a recursive
// node-tree decode/encode. The cache itself is built on
// github.com/modern-go/concurrent (replacing the teacher's
// sync.RWMutex-guarded map), keyed directly on reflect.Type — a
// reflect.Type is already comparable and suitable as a map key, so nothing
// else canonicalizes it.
//
// Struct fields are matched by an `rjson:"name"` tag, falling back to the
// lower-cased Go field name, mirroring getStructInfo's `yaml:"..."` tag
// handling in ini.go.

type fieldInfo struct {
	key   string
	index []int
}

type structInfo struct {
	byKey   map[string]fieldInfo
	ordered []fieldInfo
}

var structInfoCache = concurrent.NewMap()

func getStructInfo(t reflect.Type) *structInfo {
	if v, ok := structInfoCache.Load(t); ok {
		return v.(*structInfo)
	}
	info := buildStructInfo(t)
	structInfoCache.Store(t, info)
	return info
}

func buildStructInfo(t reflect.Type) *structInfo {
	byKey := make(map[string]fieldInfo)
	var ordered []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}
		tag := f.Tag.Get("rjson")
		if tag == "-" {
			continue
		}
		key := tag
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			key = tag[:idx]
		}
		if key == "" {
			key = strings.ToLower(f.Name)
		}
		fi := fieldInfo{key: key, index: f.Index}
		byKey[key] = fi
		ordered = append(ordered, fi)
	}
	return &structInfo{byKey: byKey, ordered: ordered}
}

// node is one entry of the tree buildTree assembles from a single Walk
// pass, the same shape decode.go's parser.node plays for Unmarshal, built
// here on top of the Walker instead of a bespoke event parser.
type node struct {
	kind     Kind
	tok      Token
	name     string
	children []*node
}

func errForStatus(st Status) error {
	switch st {
	case Incomplete:
		return ErrIncomplete
	case Invalid:
		return ErrInvalid
	}
	return nil
}

func buildTree(buf []byte) (*node, error) {
	var stack []*node
	var root *node
	st := Walk(buf, func(_ any, name string, _ bool, _ string, tok Token) bool {
		switch tok.Kind {
		case ObjectBegin, ArrayBegin:
			n := &node{kind: tok.Kind, name: name}
			if len(stack) > 0 {
				p := stack[len(stack)-1]
				p.children = append(p.children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case ObjectEnd, ArrayEnd:
			stack[len(stack)-1].tok = tok
			stack = stack[:len(stack)-1]
		default:
			n := &node{kind: tok.Kind, tok: tok, name: name}
			if len(stack) > 0 {
				p := stack[len(stack)-1]
				p.children = append(p.children, n)
			} else {
				root = n
			}
		}
		return true
	}, nil)
	if st < 0 {
		return nil, errForStatus(st)
	}
	return root, nil
}

func keyText(raw string) string {
	u, err := unescapeJSONString([]byte(raw))
	if err != nil {
		return raw
	}
	return string(u)
}

// Decode parses buf and stores the result in the value pointed to by out.
func Decode(buf []byte, out any) (err error) {
	defer recoverBind(&err)
	root, terr := buildTree(buf)
	if terr != nil {
		return terr
	}
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		bindFail(errors.New("rjson: Decode requires a non-nil pointer"))
	}
	if root == nil {
		return nil
	}
	decodeValue(buf, root, v.Elem())
	return nil
}

func decodeValue(buf []byte, n *node, out reflect.Value) {
	for out.Kind() == reflect.Ptr {
		if n.kind == Null {
			out.Set(reflect.Zero(out.Type()))
			return
		}
		if out.IsNil() {
			out.Set(reflect.New(out.Type().Elem()))
		}
		out = out.Elem()
	}
	switch n.kind {
	case Null:
		out.Set(reflect.Zero(out.Type()))
	case True, False:
		if out.Kind() == reflect.Interface {
			out.Set(reflect.ValueOf(n.kind == True))
			return
		}
		if out.Kind() != reflect.Bool {
			bindFailf("rjson: cannot decode bool into %s", out.Type())
		}
		out.SetBool(n.kind == True)
	case Number:
		assignNumber(string(n.tok.Text(buf)), out)
	case String:
		assignString(buf, n, out)
	case ObjectBegin:
		decodeObject(buf, n, out)
	case ArrayBegin:
		decodeArray(buf, n, out)
	}
}

func assignNumber(text string, out reflect.Value) {
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			bindFailf("rjson: cannot decode %q as an integer", text)
		}
		out.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			bindFailf("rjson: cannot decode %q as an unsigned integer", text)
		}
		out.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			bindFailf("rjson: cannot decode %q as a float", text)
		}
		out.SetFloat(v)
	case reflect.Interface:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			bindFailf("rjson: cannot decode %q as a number", text)
		}
		out.Set(reflect.ValueOf(v))
	default:
		bindFailf("rjson: cannot decode number into %s", out.Type())
	}
}

func assignString(buf []byte, n *node, out reflect.Value) {
	text, err := unescapeJSONString(n.tok.Text(buf))
	if err != nil {
		bindFail(err)
	}
	switch out.Kind() {
	case reflect.String:
		out.SetString(string(text))
	case reflect.Slice:
		if out.Type().Elem().Kind() != reflect.Uint8 {
			bindFailf("rjson: cannot decode string into %s", out.Type())
		}
		dec, err := base64x.StdEncoding.DecodeString(string(text))
		if err != nil {
			bindFail(err)
		}
		out.Set(reflect.ValueOf(dec))
	case reflect.Interface:
		out.Set(reflect.ValueOf(string(text)))
	default:
		bindFailf("rjson: cannot decode string into %s", out.Type())
	}
}

func decodeObject(buf []byte, n *node, out reflect.Value) {
	switch out.Kind() {
	case reflect.Struct:
		info := getStructInfo(out.Type())
		for _, c := range n.children {
			fi, ok := info.byKey[keyText(c.name)]
			if !ok {
				continue
			}
			decodeValue(buf, c, out.FieldByIndex(fi.index))
		}
	case reflect.Map:
		if out.Type().Key().Kind() != reflect.String {
			bindFailf("rjson: cannot decode object into map with %s keys", out.Type().Key())
		}
		if out.IsNil() {
			out.Set(reflect.MakeMap(out.Type()))
		}
		et := out.Type().Elem()
		for _, c := range n.children {
			ev := reflect.New(et).Elem()
			decodeValue(buf, c, ev)
			out.SetMapIndex(reflect.ValueOf(keyText(c.name)).Convert(out.Type().Key()), ev)
		}
	case reflect.Interface:
		m := make(map[string]any, len(n.children))
		for _, c := range n.children {
			var ev any
			decodeValue(buf, c, reflect.ValueOf(&ev).Elem())
			m[keyText(c.name)] = ev
		}
		out.Set(reflect.ValueOf(m))
	default:
		bindFailf("rjson: cannot decode object into %s", out.Type())
	}
}

func decodeArray(buf []byte, n *node, out reflect.Value) {
	switch out.Kind() {
	case reflect.Slice:
		sl := reflect.MakeSlice(out.Type(), len(n.children), len(n.children))
		for i, c := range n.children {
			decodeValue(buf, c, sl.Index(i))
		}
		out.Set(sl)
	case reflect.Array:
		for i, c := range n.children {
			if i >= out.Len() {
				break
			}
			decodeValue(buf, c, out.Index(i))
		}
	case reflect.Interface:
		sl := make([]any, len(n.children))
		for i, c := range n.children {
			decodeValue(buf, c, reflect.ValueOf(&sl[i]).Elem())
		}
		out.Set(reflect.ValueOf(sl))
	default:
		bindFailf("rjson: cannot decode array into %s", out.Type())
	}
}

// Encode renders v as compact JSON text.
func Encode(v any) (string, error) {
	s := &GrowingSink{}
	if err := EncodeTo(s, v); err != nil {
		return "", err
	}
	return s.String(), nil
}

// EncodeTo is Encode against an arbitrary Sink.
func EncodeTo(sink Sink, v any) (err error) {
	defer recoverBind(&err)
	encodeValue(sink, reflect.ValueOf(v))
	return nil
}

func encodeValue(sink Sink, v reflect.Value) {
	if !v.IsValid() {
		writeAll(sink, []byte("null"))
		return
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			writeAll(sink, []byte("null"))
			return
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		writeAll(sink, []byte(`"`))
		writeAll(sink, appendJSONEscaped(nil, []byte(v.String())))
		writeAll(sink, []byte(`"`))
	case reflect.Bool:
		if v.Bool() {
			writeAll(sink, []byte("true"))
		} else {
			writeAll(sink, []byte("false"))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeAll(sink, []byte(strconv.FormatInt(v.Int(), 10)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		writeAll(sink, []byte(strconv.FormatUint(v.Uint(), 10)))
	case reflect.Float32, reflect.Float64:
		writeAll(sink, []byte(strconv.FormatFloat(v.Float(), 'g', -1, 64)))
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			writeAll(sink, []byte(`"`))
			writeAll(sink, []byte(base64x.StdEncoding.EncodeToString(v.Bytes())))
			writeAll(sink, []byte(`"`))
			return
		}
		encodeArray(sink, v)
	case reflect.Array:
		encodeArray(sink, v)
	case reflect.Map:
		encodeMap(sink, v)
	case reflect.Struct:
		encodeStruct(sink, v)
	default:
		bindFailf("rjson: cannot encode %s", v.Type())
	}
}

func encodeArray(sink Sink, v reflect.Value) {
	writeAll(sink, []byte("["))
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			writeAll(sink, []byte(","))
		}
		encodeValue(sink, v.Index(i))
	}
	writeAll(sink, []byte("]"))
}

func encodeMap(sink Sink, v reflect.Value) {
	if v.Type().Key().Kind() != reflect.String {
		bindFailf("rjson: cannot encode map with %s keys", v.Type().Key())
	}
	writeAll(sink, []byte("{"))
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for i, k := range keys {
		if i > 0 {
			writeAll(sink, []byte(","))
		}
		writeAll(sink, []byte(`"`))
		writeAll(sink, appendJSONEscaped(nil, []byte(k.String())))
		writeAll(sink, []byte(`":`))
		encodeValue(sink, v.MapIndex(k))
	}
	writeAll(sink, []byte("}"))
}

func encodeStruct(sink Sink, v reflect.Value) {
	info := getStructInfo(v.Type())
	writeAll(sink, []byte("{"))
	for i, fi := range info.ordered {
		if i > 0 {
			writeAll(sink, []byte(","))
		}
		writeAll(sink, []byte(`"`))
		writeAll(sink, appendJSONEscaped(nil, []byte(fi.key)))
		writeAll(sink, []byte(`":`))
		encodeValue(sink, v.FieldByIndex(fi.index))
	}
	writeAll(sink, []byte("}"))
}
