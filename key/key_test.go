package key

import "testing"

func TestGenerate_NeverRepeats(t *testing.T) {
	seen := make(map[Key]bool)
	for i := 0; i < 1000; i++ {
		k := Generate()
		if k.IsZero() {
			t.Fatalf("generated empty key")
		}
		if seen[k] {
			t.Fatalf("key %q returned twice", k)
		}
		seen[k] = true
	}
}

func TestObserve_SkipsPastLoadedKeys(t *testing.T) {
	Observe("900000")
	Observe("not-a-number")

	for i := 0; i < 10; i++ {
		if got := Generate(); got == "900000" {
			t.Fatalf("generated observed key %q", got)
		}
	}
	if got, want := Generate(), Key("900011"); got != want {
		t.Fatalf("next key=%q, want %q", got, want)
	}
}
