// services/emotion/emotion_test.go
package emotion

import (
	"testing"

	"companioncode-go/services/diag"
)

type fakeFace struct {
	applied []Expression
}

func (f *fakeFace) Express(e Expression) {
	f.applied = append(f.applied, e)
}

func TestParse_RoundTripsEveryExpression(t *testing.T) {
	for e := Expression(0); e < numExpressions; e++ {
		got, ok := Parse(e.String())
		if !ok || got != e {
			t.Fatalf("Parse(%q) = %v,%v, want %v", e.String(), got, ok, e)
		}
	}
}

func TestParse_IsCaseSensitive(t *testing.T) {
	for _, name := range []string{"normal", "HAPPY", "gleE", ""} {
		if _, ok := Parse(name); ok {
			t.Fatalf("Parse(%q) accepted, want rejection", name)
		}
	}
}

func TestApply_KnownNameReachesFace(t *testing.T) {
	f := &fakeFace{}
	g := NewEngine(f, diag.New())

	g.Apply("Frustrated")
	if len(f.applied) != 1 || f.applied[0] != Frustrated {
		t.Fatalf("face saw %v, want [Frustrated]", f.applied)
	}
	if g.Current() != Frustrated {
		t.Fatalf("current = %v, want Frustrated", g.Current())
	}
}

func TestApply_UnknownNameLeavesFaceAlone(t *testing.T) {
	f := &fakeFace{}
	g := NewEngine(f, diag.New())
	g.Apply("Happy")

	g.Apply("Ecstatic")
	if len(f.applied) != 1 {
		t.Fatalf("unknown name reached face: %v", f.applied)
	}
	if g.Current() != Happy {
		t.Fatalf("current changed on unknown name: %v", g.Current())
	}
}

func TestString_OutOfRangeFallsBackToNormal(t *testing.T) {
	if got := Expression(200).String(); got != "Normal" {
		t.Fatalf("out-of-range String() = %q", got)
	}
}
