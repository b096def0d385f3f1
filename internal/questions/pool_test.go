package questions

import "testing"

func TestPoolIsStable(t *testing.T) {
	pool := Pool()
	if len(pool) != 90 {
		t.Fatalf("expected 90 questions, got %d", len(pool))
	}
	for i, q := range pool {
		if q.Prompt == "" || q.Answer == "" {
			t.Fatalf("question %d has empty prompt or answer", i)
		}
	}
	if pool[0].Answer != "tokyo" {
		t.Fatalf("unexpected first answer %q", pool[0].Answer)
	}
}
