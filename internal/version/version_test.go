package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	info := Get()
	if info.Version != "v1.2.3" || info.GoVersion != runtime.Version() {
		t.Errorf("Get() = %+v", info)
	}
	if s := info.String(); !strings.HasPrefix(s, "nexus v1.2.3 (commit=") {
		t.Errorf("String() = %q", s)
	}
}
