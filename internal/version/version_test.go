// ABOUTME: Tests for version constants
// ABOUTME: Checks the CLI banner and that a link-time Version override reaches it
package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	if !strings.HasPrefix(got, Product+" ") {
		t.Errorf("banner %q should start with product %q", got, Product)
	}
	if !strings.HasSuffix(got, Version) {
		t.Errorf("banner %q should end with version %q", got, Version)
	}
}

func TestStringUsesOverriddenVersion(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version = saved })

	// -ldflags "-X .../internal/version.Version=1.2.3" assigns the variable before main
	Version = "1.2.3"
	if got, want := String(), Product+" 1.2.3"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
