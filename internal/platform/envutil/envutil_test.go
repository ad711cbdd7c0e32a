package envutil

import (
	"reflect"
	"testing"
)

func TestParsersFallBackToDefault(t *testing.T) {
	t.Setenv("RB_INT", "nope")
	t.Setenv("RB_FLOAT", "1.5")
	t.Setenv("RB_BOOL", "on")
	t.Setenv("RB_LIST", " a, ,b ")
	t.Setenv("RB_BLANK", "   ")

	if got := Int("RB_INT", 7, nil); got != 7 {
		t.Fatalf("Int: got %d want 7", got)
	}
	if got := Float("RB_FLOAT", 0, nil); got != 1.5 {
		t.Fatalf("Float: got %v want 1.5", got)
	}
	if got := Bool("RB_BOOL", false, nil); !got {
		t.Fatalf("Bool: got false want true")
	}
	if got := List("RB_LIST", nil, nil); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("List: got %#v", got)
	}
	if got := String("RB_BLANK", "def", nil); got != "def" {
		t.Fatalf("String: got %q want def", got)
	}
	if got := String("RB_UNSET_FOR_SURE", "x", nil); got != "x" {
		t.Fatalf("String unset: got %q", got)
	}
}
