package rjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaxed-json/rjson"
)

func setfString(t *testing.T, buf []byte, path, format string, args ...rjson.Arg) (string, int) {
	t.Helper()
	sink := &rjson.GrowingSink{}
	n := rjson.Setf(buf, sink, path, format, args...)
	return sink.String(), n
}

func TestSetfReplace(t *testing.T) {
	buf := []byte(`{ "a": 123, "b": [ 1 ], "c": true }`)
	out, n := setfString(t, buf, ".b[0]", "%d", rjson.Int(2))
	assert.Equal(t, 1, n)
	assert.Equal(t, `{ "a": 123, "b": [ 2 ], "c": true }`, out)
}

func TestSetfAppend(t *testing.T) {
	buf := []byte(`{ "a": 123, "b": [ 1 ], "c": true }`)
	out, n := setfString(t, buf, ".b[]", "%d", rjson.Int(2))
	assert.Equal(t, 0, n)
	assert.Equal(t, `{ "a": 123, "b": [ 1,2 ], "c": true }`, out)
}

func TestSetfCreateNested(t *testing.T) {
	buf := []byte(`{ "a": 123, "b": [ 1 ], "c": true }`)
	out, n := setfString(t, buf, ".d.e", "%d", rjson.Int(8))
	assert.Equal(t, 0, n)
	assert.Equal(t, `{ "a": 123, "b": [ 1 ], "c": true,"d":{"e":8} }`, out)
}

func TestSetfWholeRoot(t *testing.T) {
	buf := []byte(`{"a":1}`)
	out, n := setfString(t, buf, "", "%Q", rjson.Str("x"))
	assert.Equal(t, 1, n)
	assert.Equal(t, `"x"`, out)
}

func TestDeleteExistingKey(t *testing.T) {
	buf := []byte(`{"a":1,"b":2}`)
	sink := &rjson.GrowingSink{}
	n := rjson.Delete(buf, sink, ".a")
	assert.Equal(t, 1, n)
	assert.Equal(t, `{"b":2}`, sink.String())
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	buf := []byte(`{"a":1}`)
	sink := &rjson.GrowingSink{}
	n := rjson.Delete(buf, sink, ".missing")
	assert.Equal(t, 0, n)
	assert.Equal(t, `{"a":1}`, sink.String())
}

func TestDeleteLoneElement(t *testing.T) {
	buf := []byte(`{"a":1}`)
	sink := &rjson.GrowingSink{}
	n := rjson.Delete(buf, sink, ".a")
	assert.Equal(t, 1, n)
	assert.Equal(t, `{}`, sink.String())
}

func TestNextKeyEnumeration(t *testing.T) {
	buf := []byte(`{"a":1,"b":2,"c":3}`)
	var keys []string
	h := rjson.Handle{}
	for {
		k, _, next, ok := rjson.NextKey(buf, "", h)
		if !ok {
			break
		}
		keys = append(keys, k)
		h = next
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestNextElemEnumeration(t *testing.T) {
	buf := []byte(`[10,20,30]`)
	var indices []int
	h := rjson.Handle{}
	for {
		idx, _, next, ok := rjson.NextElem(buf, "", h)
		if !ok {
			break
		}
		indices = append(indices, idx)
		h = next
	}
	assert.Equal(t, []int{0, 1, 2}, indices)
}

func TestSetfScanfRoundTrip(t *testing.T) {
	buf := []byte(`{"a":1,"b":[1]}`)
	out, _ := setfString(t, buf, ".b[0]", "%d", rjson.Int(99))
	var got int64
	n := rjson.Scanf([]byte(out), "{a:%d, b:[%d]}", rjson.IntDest(new(int64)), rjson.IntDest(&got))
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(99), got)
}
