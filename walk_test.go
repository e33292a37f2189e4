package rjson_test

import (
	"testing"

	. "gopkg.in/check.v1"

	"github.com/relaxed-json/rjson"
)

// Test hooks gocheck into `go test`.
func Test(t *testing.T) { TestingT(t) }

type WalkSuite struct{}

var _ = Suite(&WalkSuite{})

type event struct {
	path string
	kind rjson.Kind
	text string
}

func collect(buf []byte) ([]event, rjson.Status) {
	var events []event
	st := rjson.Walk(buf, func(_ any, _ string, _ bool, path string, tok rjson.Token) bool {
		events = append(events, event{path: path, kind: tok.Kind, text: string(tok.Text(buf))})
		return true
	}, nil)
	return events, st
}

func (s *WalkSuite) TestScalarRoot(c *C) {
	events, st := collect([]byte(" 42 "))
	c.Assert(st, Equals, rjson.Status(3))
	c.Assert(events, DeepEquals, []event{{path: "", kind: rjson.Number, text: "42"}})
}

func (s *WalkSuite) TestObjectAndArray(c *C) {
	events, st := collect([]byte(`{"a":1,"b":[true,null]}`))
	c.Assert(st > 0, Equals, true)
	c.Assert(events, DeepEquals, []event{
		{path: "", kind: rjson.ObjectBegin, text: ""},
		{path: ".a", kind: rjson.Number, text: "1"},
		{path: ".b", kind: rjson.ArrayBegin, text: ""},
		{path: ".b[0]", kind: rjson.True, text: "true"},
		{path: ".b[1]", kind: rjson.Null, text: "null"},
		{path: ".b", kind: rjson.ArrayEnd, text: `[true,null]`},
		{path: "", kind: rjson.ObjectEnd, text: `{"a":1,"b":[true,null]}`},
	})
}

func (s *WalkSuite) TestBareKey(c *C) {
	events, st := collect([]byte(`{bare_key: "v"}`))
	c.Assert(st > 0, Equals, true)
	c.Assert(events[1], DeepEquals, event{path: ".bare_key", kind: rjson.String, text: "v"})
}

func (s *WalkSuite) TestIncomplete(c *C) {
	_, st := collect([]byte(`{"a":`))
	c.Assert(st, Equals, rjson.Incomplete)
}

func (s *WalkSuite) TestInvalid(c *C) {
	_, st := collect([]byte(`{"a":}`))
	c.Assert(st, Equals, rjson.Invalid)
}

func (s *WalkSuite) TestNilBufferIsInvalid(c *C) {
	st := rjson.Walk(nil, func(any, string, bool, string, rjson.Token) bool { return true }, nil)
	c.Assert(st, Equals, rjson.Invalid)
}

func (s *WalkSuite) TestEarlyStop(c *C) {
	var seen []string
	rjson.Walk([]byte(`[1,2,3]`), func(_ any, _ string, _ bool, path string, tok rjson.Token) bool {
		seen = append(seen, path)
		return tok.Kind != rjson.Number || path != "[1]"
	}, nil)
	c.Assert(seen, DeepEquals, []string{"", "[0]", "[1]"})
}

func (s *WalkSuite) TestStringEscapes(c *C) {
	events, st := collect([]byte(`"a\nbA"`))
	c.Assert(st > 0, Equals, true)
	c.Assert(events[0].text, Equals, `a\nbA`)
}
