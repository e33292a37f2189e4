package rjson_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/relaxed-json/rjson"
)

type addr struct {
	City string `rjson:"city"`
	Zip  string `rjson:"zip"`
}

type person struct {
	Name string   `rjson:"name"`
	Age  int      `rjson:"age"`
	Tags []string `rjson:"tags"`
	Home addr     `rjson:"home"`
}

func TestDecodeStruct(t *testing.T) {
	var p person
	err := rjson.Decode([]byte(`{name: "Ada", age: 36, tags: ["math", "engines"], home: {city: "London", zip: "EC1"}}`), &p)
	assert.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, 36, p.Age)
	assert.Equal(t, []string{"math", "engines"}, p.Tags)
	assert.Equal(t, "London", p.Home.City)
}

func TestDecodeRequiresPointer(t *testing.T) {
	var p person
	err := rjson.Decode([]byte(`{}`), p)
	assert.Error(t, err)
}

func TestDecodeInvalidJSON(t *testing.T) {
	var p person
	err := rjson.Decode([]byte(`{name:}`), &p)
	assert.Error(t, err)
}

func TestDecodeMap(t *testing.T) {
	m := map[string]int{}
	err := rjson.Decode([]byte(`{a:1, b:2}`), &m)
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, m)
}

func TestEncodeStructDeterministic(t *testing.T) {
	p := person{Name: "Grace", Age: 85, Tags: []string{"cobol"}, Home: addr{City: "NYC", Zip: "10001"}}
	s, err := rjson.Encode(p)
	assert.NoError(t, err)
	assert.Equal(t, `{"name":"Grace","age":85,"tags":["cobol"],"home":{"city":"NYC","zip":"10001"}}`, s)
}

func TestEncodeMapSortsKeys(t *testing.T) {
	m := map[string]int{"z": 1, "a": 2, "m": 3}
	s, err := rjson.Encode(m)
	assert.NoError(t, err)
	assert.Equal(t, `{"a":2,"m":3,"z":1}`, s)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := person{Name: "Alan", Age: 41, Tags: []string{"turing"}, Home: addr{City: "Bletchley", Zip: "MK3"}}
	s, err := rjson.Encode(p)
	assert.NoError(t, err)

	var out person
	assert.NoError(t, rjson.Decode([]byte(s), &out))
	if diff := cmp.Diff(p, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeBytesAsBase64(t *testing.T) {
	type withBytes struct {
		Data []byte `rjson:"data"`
	}
	s, err := rjson.Encode(withBytes{Data: []byte("a2")})
	assert.NoError(t, err)
	assert.Equal(t, `{"data":"YTI="}`, s)
}
