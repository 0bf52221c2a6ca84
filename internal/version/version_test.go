package version

import "testing"

func TestString(t *testing.T) {
	Version, Commit, BuildDate = "1.2.3", "abc123", "2026-01-02"
	t.Cleanup(func() { Version, Commit, BuildDate = "dev", "unknown", "unknown" })

	want := "1.2.3 (commit: abc123, built: 2026-01-02)"
	if got := String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
