package instrumentation

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// TagKind enumerates the closed set of tag value types.
type TagKind uint8

const (
	// TagBool holds a bool.
	TagBool TagKind = iota + 1
	// TagInt holds an int64.
	TagInt
	// TagFloat holds a float64.
	TagFloat
	// TagString holds a string.
	TagString
)

// String returns the Go name of the value type.
func (k TagKind) String() string {
	switch k {
	case TagBool:
		return "bool"
	case TagInt:
		return "int64"
	case TagFloat:
		return "float64"
	case TagString:
		return "string"
	default:
		return "invalid"
	}
}

// TagValue holds one of bool, int64, float64 or string.
// Construct it with BoolValue, IntValue, FloatValue or StringValue.
type TagValue struct {
	kind TagKind
	b    bool
	i    int64
	f    float64
	s    string
}

// BoolValue returns a bool tag value.
func BoolValue(v bool) TagValue { return TagValue{kind: TagBool, b: v} }

// IntValue returns an int64 tag value.
func IntValue(v int64) TagValue { return TagValue{kind: TagInt, i: v} }

// FloatValue returns a float64 tag value. NaN is allowed and equals itself
// as a label.
func FloatValue(v float64) TagValue { return TagValue{kind: TagFloat, f: v} }

// StringValue returns a string tag value.
func StringValue(v string) TagValue { return TagValue{kind: TagString, s: v} }

// Kind reports which type v holds. The zero TagValue has kind 0.
func (v TagValue) Kind() TagKind { return v.kind }

// AsBool returns the bool held by v, or false for other kinds.
func (v TagValue) AsBool() bool { return v.b }

// AsInt returns the int64 held by v, or 0 for other kinds.
func (v TagValue) AsInt() int64 { return v.i }

// AsFloat returns the float64 held by v, or 0 for other kinds.
func (v TagValue) AsFloat() float64 { return v.f }

// AsString returns the string held by v, or "" for other kinds.
// Use String for a printable form of any kind.
func (v TagValue) AsString() string { return v.s }

// Equal compares kind and value. Two NaN floats are equal, so NaN-valued
// label tuples resolve to a single metric.
func (v TagValue) Equal(o TagValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case TagBool:
		return v.b == o.b
	case TagInt:
		return v.i == o.i
	case TagFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case TagString:
		return v.s == o.s
	}
	return true
}

// String renders the value without quoting.
func (v TagValue) String() string {
	switch v.kind {
	case TagBool:
		return strconv.FormatBool(v.b)
	case TagInt:
		return strconv.FormatInt(v.i, 10)
	case TagFloat:
		return FormatFloat(v.f)
	case TagString:
		return v.s
	default:
		return ""
	}
}

// appendKey writes a self-delimiting, type-distinguishing encoding of v.
// Concatenated keys of two different tuples never collide: strings are
// length-prefixed, the other kinds never contain the '\xff' terminator.
func (v TagValue) appendKey(b *strings.Builder) {
	b.WriteByte(byte(v.kind))
	switch v.kind {
	case TagBool:
		if v.b {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	case TagInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case TagFloat:
		f := v.f
		switch {
		case math.IsNaN(f):
			b.WriteString("NaN")
		case f == 0:
			b.WriteByte('0') // folds -0 into +0
		default:
			b.WriteString(strconv.FormatUint(math.Float64bits(f), 16))
		}
	case TagString:
		b.WriteString(strconv.Itoa(len(v.s)))
		b.WriteByte(':')
		b.WriteString(v.s)
		return
	}
	b.WriteByte('\xff')
}

// tagValueOf converts a label value supplied by calling code into the
// closed TagValue variant. Unsupported types report false.
func tagValueOf(v any) (TagValue, bool) {
	switch x := v.(type) {
	case TagValue:
		return x, x.kind != 0
	case bool:
		return BoolValue(x), true
	case int:
		return IntValue(int64(x)), true
	case int8:
		return IntValue(int64(x)), true
	case int16:
		return IntValue(int64(x)), true
	case int32:
		return IntValue(int64(x)), true
	case int64:
		return IntValue(x), true
	case uint8:
		return IntValue(int64(x)), true
	case uint16:
		return IntValue(int64(x)), true
	case uint32:
		return IntValue(int64(x)), true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return TagValue{}, false
		}
		return IntValue(int64(x)), true
	case uint64:
		if x > math.MaxInt64 {
			return TagValue{}, false
		}
		return IntValue(int64(x)), true
	case float32:
		return FloatValue(float64(x)), true
	case float64:
		return FloatValue(x), true
	case string:
		return StringValue(x), true
	default:
		return TagValue{}, false
	}
}

// FormatFloat renders f in plain decimal notation with the fewest digits
// that round-trip, spelling non-finite values NaN, +Inf and -Inf.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Tags maps tag names to values. A Tags value is never mutated in place:
// the With* methods return a modified copy. The zero value is empty.
type Tags struct {
	m map[string]TagValue
}

// With returns a copy of t with name set to v.
func (t Tags) With(name string, v TagValue) Tags {
	m := make(map[string]TagValue, len(t.m)+1)
	for k, existing := range t.m {
		m[k] = existing
	}
	m[name] = v
	return Tags{m: m}
}

// WithBool is With for a bool value.
func (t Tags) WithBool(name string, v bool) Tags { return t.With(name, BoolValue(v)) }

// WithInt is With for an int64 value.
func (t Tags) WithInt(name string, v int64) Tags { return t.With(name, IntValue(v)) }

// WithFloat is With for a float64 value.
func (t Tags) WithFloat(name string, v float64) Tags { return t.With(name, FloatValue(v)) }

// WithString is With for a string value.
func (t Tags) WithString(name string, v string) Tags { return t.With(name, StringValue(v)) }

// Len returns the number of tags.
func (t Tags) Len() int { return len(t.m) }

// Empty reports whether there are no tags.
func (t Tags) Empty() bool { return len(t.m) == 0 }

// Get returns the value stored under name.
func (t Tags) Get(name string) (TagValue, bool) {
	v, ok := t.m[name]
	return v, ok
}

// Has reports whether name is present.
func (t Tags) Has(name string) bool {
	_, ok := t.m[name]
	return ok
}

// Keys returns the tag names sorted lexicographically.
func (t Tags) Keys() []string {
	keys := make([]string, 0, len(t.m))
	for k := range t.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for every tag in key order until fn returns false.
func (t Tags) Range(fn func(name string, v TagValue) bool) {
	for _, k := range t.Keys() {
		if !fn(k, t.m[k]) {
			return
		}
	}
}

// Equal reports whether both sets hold the same names and values.
func (t Tags) Equal(o Tags) bool {
	if len(t.m) != len(o.m) {
		return false
	}
	for k, v := range t.m {
		ov, ok := o.m[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// String renders the tags as {a=1,b=x} in key order.
func (t Tags) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(t.m[k].String())
	}
	b.WriteByte('}')
	return b.String()
}
