package rjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaxed-json/rjson"
)

func TestSprintfConversions(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []rjson.Arg
		want   string
	}{
		{"int", "%d", []rjson.Arg{rjson.Int(-7)}, "-7"},
		{"uint-hex", "%x", []rjson.Arg{rjson.Uint(255)}, "ff"},
		{"uint-hex-upper", "%X", []rjson.Arg{rjson.Uint(255)}, "FF"},
		{"uint-octal", "%o", []rjson.Arg{rjson.Uint(8)}, "10"},
		{"float-default-prec", "%f", []rjson.Arg{rjson.Float(1.5)}, "1.500000"},
		{"float-precision", "%.2f", []rjson.Arg{rjson.Float(3.14159)}, "3.14"},
		{"bool-true", "%B", []rjson.Arg{rjson.Bool(true)}, "true"},
		{"bool-false", "%B", []rjson.Arg{rjson.Bool(false)}, "false"},
		{"quoted-string", "%Q", []rjson.Arg{rjson.Str("a\"b\nc")}, `"a\"b\nc"`},
		{"quoted-null", "%Q", []rjson.Arg{rjson.Null()}, "null"},
		{"base64", "%V", []rjson.Arg{rjson.Bytes([]byte("hi"))}, `"aGk="`},
		{"hex-bytes", "%H", []rjson.Arg{rjson.Bytes([]byte{0xde, 0xad})}, `"dead"`},
		{"width-padded", "%5d", []rjson.Arg{rjson.Int(7)}, "    7"},
		{"zero-padded", "%05d", []rjson.Arg{rjson.Int(7)}, "00007"},
		{"zero-padded-negative", "%05d", []rjson.Arg{rjson.Int(-7)}, "-0007"},
		{"left-justified", "%-5d|", []rjson.Arg{rjson.Int(7)}, "7    |"},
		{"bare-key-quoting", "{a: %d}", []rjson.Arg{rjson.Int(1)}, `{"a": 1}`},
		{"bare-key-inside-quoted-literal-untouched", `"a: %d"`, []rjson.Arg{rjson.Int(1)}, `"a: 1"`},
		{"dynamic-width", "%*d", []rjson.Arg{rjson.Int(5), rjson.Int(7)}, "    7"},
		{"dynamic-precision", "%.*s", []rjson.Arg{rjson.Int(2), rjson.Str("abcdef")}, "ab"},
		{"dynamic-precision-Q", "%.*Q", []rjson.Arg{rjson.Int(3), rjson.Str("abcdef")}, `"abc"`},
		{"dynamic-negative-width-left-justifies", "%*d|", []rjson.Arg{rjson.Int(-5), rjson.Int(7)}, "7    |"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := rjson.Sprintf(tc.format, tc.args...)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFprintfCountToAndBoundedSink(t *testing.T) {
	var n int
	out := rjson.Sprintf("%d%n", []rjson.Arg{rjson.Int(123), rjson.CountTo(&n)}...)
	assert.Equal(t, "123", out)
	assert.Equal(t, 3, n)

	buf := make([]byte, 2)
	sink := rjson.NewBufferSink(buf)
	written := rjson.Fprintf(sink, "%d", rjson.Int(12345))
	assert.Equal(t, 5, written, "Fprintf reports the unbounded length even when the sink truncates")
	assert.Equal(t, 2, sink.Used())
	assert.Equal(t, "12", string(sink.Bytes()))
}

func TestHookEmitterWritesIntoStream(t *testing.T) {
	hook := rjson.EmitterFunc(func(p *rjson.Printer) error {
		p.RawString(`{"nested":true}`)
		return nil
	})
	got := rjson.Sprintf("[1,%M,3]", rjson.Hook(hook))
	assert.Equal(t, `[1,{"nested":true},3]`, got)
}

func TestDynamicWidthDoesNotShiftSubsequentArgs(t *testing.T) {
	got := rjson.Sprintf("%*d,%d", rjson.Int(4), rjson.Int(1), rjson.Int(2))
	assert.Equal(t, "   1,2", got)
}

func TestDynamicWidthMissingArgIsInvalid(t *testing.T) {
	got := rjson.Fprintf(&rjson.GrowingSink{}, "%*d", rjson.Int(5))
	assert.Equal(t, -1, got)
}
