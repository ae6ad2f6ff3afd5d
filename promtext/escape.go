package promtext

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ygrebnov/instrumentation"
)

// SanitizeName replaces every character Prometheus does not allow in metric
// and label names with '_'. The first character must match [A-Za-z_:] and
// the others [A-Za-z0-9_:].
func SanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c == '_' || c == ':' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(i > 0 && c >= '0' && c <= '9')
		if ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// MetricName joins the segments of n with '_' and sanitizes the result.
func MetricName(n instrumentation.MetricName) string {
	return SanitizeName(n.WithSeparator("_"))
}

var (
	helpEscaper  = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	valueEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)
)

// EscapeHelp escapes backslashes and newlines so the text stays on one line.
func EscapeHelp(s string) string { return helpEscaper.Replace(s) }

// QuoteLabelValue returns s in double quotes with '"', '\' and newline escaped.
func QuoteLabelValue(s string) string { return `"` + valueEscaper.Replace(s) + `"` }

// formatTagValue renders a tag value as a quoted label value.
func formatTagValue(v instrumentation.TagValue) string {
	switch v.Kind() {
	case instrumentation.TagBool:
		return strconv.Quote(strconv.FormatBool(v.AsBool()))
	case instrumentation.TagInt:
		return `"` + strconv.FormatInt(v.AsInt(), 10) + `"`
	case instrumentation.TagFloat:
		return `"` + instrumentation.FormatFloat(v.AsFloat()) + `"`
	default:
		return QuoteLabelValue(v.AsString())
	}
}

// labelPair is a sanitized key and an already quoted value.
type labelPair struct {
	key   string
	value string
}

// labelSet is kept sorted by key.
type labelSet []labelPair

func newLabelSet(tags instrumentation.Tags) labelSet {
	if tags.Empty() {
		return nil
	}
	out := make(labelSet, 0, tags.Len())
	tags.Range(func(name string, v instrumentation.TagValue) bool {
		out = append(out, labelPair{key: SanitizeName(name), value: formatTagValue(v)})
		return true
	})
	// sanitizing may reorder keys or map two tags to one label name; the
	// first tag in key order wins
	sort.SliceStable(out, func(i, j int) bool { return out[i].key < out[j].key })
	kept := out[:1]
	for _, p := range out[1:] {
		if p.key != kept[len(kept)-1].key {
			kept = append(kept, p)
		}
	}
	return kept
}

// with returns a copy of s with key set to an already quoted value.
func (s labelSet) with(key, quoted string) labelSet {
	i := sort.Search(len(s), func(i int) bool { return s[i].key >= key })
	out := make(labelSet, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, labelPair{key: key, value: quoted})
	if i < len(s) && s[i].key == key {
		i++
	}
	return append(out, s[i:]...)
}

func (s labelSet) has(key string) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].key >= key })
	return i < len(s) && s[i].key == key
}

// String renders the pairs as k="v",k2="v2", with a trailing comma.
func (s labelSet) String() string {
	var b strings.Builder
	for _, p := range s {
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
		b.WriteByte(',')
	}
	return b.String()
}

// appendSample writes one sample line.
func appendSample(b *strings.Builder, name string, labels labelSet, value string) {
	b.WriteString(name)
	if len(labels) > 0 {
		b.WriteString("\t{")
		b.WriteString(labels.String())
		b.WriteByte('}')
	}
	b.WriteByte('\t')
	b.WriteString(value)
	b.WriteByte('\n')
}

func appendHeader(b *strings.Builder, name, help, typ string) {
	if help != "" {
		b.WriteString("# HELP ")
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(EscapeHelp(help))
		b.WriteByte('\n')
	}
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(typ)
	b.WriteByte('\n')
}

func formatCount(n uint64) string { return strconv.FormatUint(n, 10) }

// leValue renders a bucket bound in seconds.
func leValue(seconds float64) string {
	return `"` + instrumentation.FormatFloat(seconds) + `"`
}

// appendHistogram writes the cumulative buckets, the +Inf total, then _sum
// and _count.
func appendHistogram(b *strings.Builder, name string, labels labelSet, bounds []float64, counts []uint64, inf uint64, sumSeconds float64) {
	var total uint64
	for i, bound := range bounds {
		total += counts[i]
		appendSample(b, name+"_bucket", labels.with("le", leValue(bound)), formatCount(total))
	}
	total += inf
	appendSample(b, name+"_bucket", labels.with("le", `"+Inf"`), formatCount(total))
	appendSample(b, name+"_sum", labels, instrumentation.FormatFloat(sumSeconds))
	appendSample(b, name+"_count", labels, formatCount(total))
}
