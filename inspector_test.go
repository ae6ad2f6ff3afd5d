package instrumentation

import (
	"testing"
)

func TestInspect(t *testing.T) {
	t.Run("not_created", func(t *testing.T) {
		e := NewEngine()
		if md, ok := e.Inspect(Name("missing")); ok || md.Description != "" {
			t.Fatalf("expected not found; got ok=%v md=%v", ok, md)
		}
	})

	t.Run("created_and_snapshot", func(t *testing.T) {
		e := NewEngine()
		v := e.GaugeVec(Name("queue.depth"), []string{"queue", "shard"}, WithDescription("pending items"))
		v.Labels("emails", 1).Set(3)
		v.Labels("emails", 2).Set(4)

		md, ok := e.Inspect(Name("queue.depth"))
		if !ok {
			t.Fatal("expected found gauge group")
		}
		if md.Kind != KindGauge || md.Description != "pending items" || md.Series != 2 {
			t.Fatalf("unexpected metadata: %+v", md)
		}
		if len(md.LabelNames) != 2 || md.LabelNames[0] != "queue" || md.LabelNames[1] != "shard" {
			t.Fatalf("unexpected label names: %v", md.LabelNames)
		}
	})

	t.Run("defensive_copy", func(t *testing.T) {
		e := NewEngine()
		labels := []string{"a"}
		e.CounterVec(Name("c"), labels)
		labels[0] = "mutated"

		md, _ := e.Inspect(Name("c"))
		if md.LabelNames[0] != "a" {
			t.Fatalf("engine kept caller slice; got %v", md.LabelNames)
		}
		md.LabelNames[0] = "mutated"
		md2, _ := e.Inspect(Name("c"))
		if md2.LabelNames[0] != "a" {
			t.Fatalf("engine metadata mutated; got %v", md2.LabelNames)
		}
	})
}

func TestListMetadata(t *testing.T) {
	e := NewEngine()
	e.Counter(Name("b"))
	e.String(Name("a"), WithDescription("text"))
	e.CumulativeTiming(Name("c"))

	list := e.ListMetadata()
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	want := []struct {
		name string
		kind Kind
	}{{"b", KindCounter}, {"a", KindString}, {"c", KindHistogram}}
	for i, w := range want {
		if list[i].Name.String() != w.name || list[i].Kind != w.kind {
			t.Fatalf("entry %d: got %s/%v want %s/%v", i, list[i].Name, list[i].Kind, w.name, w.kind)
		}
	}
	if !list[2].Cumulative {
		t.Fatal("expected cumulative timing to be flagged")
	}
	if list[1].Description != "text" {
		t.Fatalf("unexpected description %q", list[1].Description)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		KindCounter:   "counter",
		KindGauge:     "gauge",
		KindString:    "string",
		KindHistogram: "histogram",
		Kind(0):       "unknown",
	} {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
