package instrumentation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_WithReturnsCopy(t *testing.T) {
	base := Tags{}.WithString("a", "x")
	next := base.WithInt("b", 2)

	assert.Equal(t, 1, base.Len())
	assert.False(t, base.Has("b"))
	assert.Equal(t, 2, next.Len())

	overwritten := next.WithBool("a", true)
	v, ok := overwritten.Get("a")
	require.True(t, ok)
	assert.Equal(t, TagBool, v.Kind())
	assert.True(t, v.AsBool())

	v, _ = next.Get("a")
	assert.Equal(t, "x", v.AsString())
}

func TestTags_KeysAndString(t *testing.T) {
	tags := Tags{}.WithString("string", "text").WithBool("bool", true).WithInt("int", 17).WithFloat("double", 19)
	assert.Equal(t, []string{"bool", "double", "int", "string"}, tags.Keys())
	assert.Equal(t, "{bool=true,double=19,int=17,string=text}", tags.String())
	assert.Equal(t, "{}", Tags{}.String())
	assert.True(t, Tags{}.Empty())
}

func TestTags_Equal(t *testing.T) {
	a := Tags{}.WithFloat("f", math.NaN()).WithInt("i", 1)
	b := Tags{}.WithInt("i", 1).WithFloat("f", math.NaN())
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(a.WithInt("i", 2)))
	assert.False(t, Tags{}.WithInt("v", 1).Equal(Tags{}.WithString("v", "1")))
	assert.False(t, a.Equal(Tags{}))
}

func TestTagValue_KeyDistinguishesKinds(t *testing.T) {
	key := func(v TagValue) string {
		var b strings.Builder
		v.appendKey(&b)
		return b.String()
	}
	assert.NotEqual(t, key(IntValue(1)), key(StringValue("1")))
	assert.NotEqual(t, key(BoolValue(true)), key(IntValue(1)))
	assert.NotEqual(t, key(FloatValue(1)), key(IntValue(1)))
	assert.Equal(t, key(FloatValue(math.Copysign(0, -1))), key(FloatValue(0)))
	assert.Equal(t, key(FloatValue(math.NaN())), key(FloatValue(math.NaN())))
}

func TestTagValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want TagValue
		ok   bool
	}{
		{"bool", true, BoolValue(true), true},
		{"int", 17, IntValue(17), true},
		{"int8", int8(-3), IntValue(-3), true},
		{"uint32", uint32(7), IntValue(7), true},
		{"uint64 overflow", uint64(math.MaxUint64), TagValue{}, false},
		{"float32", float32(0.5), FloatValue(0.5), true},
		{"float64", 19.0, FloatValue(19), true},
		{"string", "text", StringValue("text"), true},
		{"tag value", StringValue("v"), StringValue("v"), true},
		{"zero tag value", TagValue{}, TagValue{}, false},
		{"unsupported", struct{}{}, TagValue{}, false},
		{"nil", nil, TagValue{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tagValueOf(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		11:           "11",
		11.5:         "11.5",
		0.001:        "0.001",
		1e21:         "1000000000000000000000",
		-2.25:        "-2.25",
		math.Inf(1):  "+Inf",
		math.Inf(-1): "-Inf",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in))
	}
	assert.Equal(t, "NaN", FormatFloat(math.NaN()))
}

func TestTagValue_TupleKeysNeverCollide(t *testing.T) {
	tupleKey := func(values ...TagValue) string {
		var b strings.Builder
		for _, v := range values {
			v.appendKey(&b)
		}
		return b.String()
	}
	tests := []struct {
		name string
		a, b []TagValue
	}{
		{
			"separator inside string",
			[]TagValue{StringValue("x\xff\x04y"), StringValue("z")},
			[]TagValue{StringValue("x"), StringValue("y\xff\x04z")},
		},
		{
			"split point moves",
			[]TagValue{StringValue("ab"), StringValue("c")},
			[]TagValue{StringValue("a"), StringValue("bc")},
		},
		{
			"digits after length prefix",
			[]TagValue{StringValue("1:a"), StringValue("")},
			[]TagValue{StringValue(""), StringValue("1:a")},
		},
		{
			"string swallowing an int key",
			[]TagValue{StringValue("a\xff\x021"), IntValue(2)},
			[]TagValue{StringValue("a"), IntValue(1), IntValue(2)},
		},
		{
			"empty strings",
			[]TagValue{StringValue(""), StringValue("")},
			[]TagValue{StringValue("")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, tupleKey(tt.a...), tupleKey(tt.b...))
		})
	}
}
