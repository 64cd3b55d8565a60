package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("EU_INT", "42")
	t.Setenv("EU_BAD_INT", "x")
	t.Setenv("EU_FLOAT", "2.5")
	t.Setenv("EU_BOOL", "on")
	t.Setenv("EU_DUR", "3s")
	t.Setenv("EU_STR", "  hello ")

	if got := Int("EU_INT", 1); got != 42 {
		t.Fatalf("Int=%d", got)
	}
	if got := Int("EU_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback=%d", got)
	}
	if got := Float("EU_FLOAT", 0); got != 2.5 {
		t.Fatalf("Float=%v", got)
	}
	if !Bool("EU_BOOL", false) {
		t.Fatal("Bool")
	}
	if got := Duration("EU_DUR", time.Second); got != 3*time.Second {
		t.Fatalf("Duration=%v", got)
	}
	if got := String("EU_STR", "d"); got != "hello" {
		t.Fatalf("String=%q", got)
	}
	if got := String("EU_MISSING", "d"); got != "d" {
		t.Fatalf("String default=%q", got)
	}
}

func TestParseBoolUnknownKeepsDefault(t *testing.T) {
	if !ParseBool("maybe", true) || ParseBool("maybe", false) {
		t.Fatal("unknown value should return default")
	}
}
