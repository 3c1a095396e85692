package alert

import (
    "strings"
    "testing"
)

func TestRenderContainsMessage(t *testing.T) {
    out := Render(80, 20, true)
    for _, want := range []string{Title, Message, Hint} {
        if !strings.Contains(out, want) {
            t.Fatalf("expected %q in alert: %s", want, out)
        }
    }
    if n := strings.Count(out, "\n") + 1; n != 20 {
        t.Fatalf("expected alert placed in 20 rows, got %d", n)
    }
}

func TestRenderUnsized(t *testing.T) {
    if !strings.Contains(Render(0, 0, true), Title) {
        t.Fatalf("expected bare dialog when size unknown")
    }
}
