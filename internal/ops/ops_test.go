package ops

import (
	"path/filepath"
	"testing"

	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
)

// newTestEnv initializes a store in a temp directory and a config whose
// export allowlist points at the store's exports directory.
func newTestEnv(t *testing.T) (*db.Store, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	store, err := db.Init(dir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.Export.AllowedPaths = []string{filepath.Join(dir, "exports")}
	return store, cfg
}

func exportsDir(cfg *config.Config) string {
	return cfg.Export.AllowedPaths[0]
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultRecentLimit},
		{"negative uses default", -5, DefaultRecentLimit},
		{"in range passes through", 25, 25},
		{"above max clamps", MaxRecentLimit + 1, MaxRecentLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampLimit(tt.limit, DefaultRecentLimit, MaxRecentLimit); got != tt.want {
				t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestCleanOptionalString(t *testing.T) {
	if got := cleanOptionalString(nil); got != nil {
		t.Errorf("nil input should stay nil, got %v", got)
	}

	blank := "   "
	if got := cleanOptionalString(&blank); got != nil {
		t.Errorf("whitespace-only input should become nil, got %q", *got)
	}

	padded := "  batch-1  "
	got := cleanOptionalString(&padded)
	if got == nil || *got != "batch-1" {
		t.Errorf("cleanOptionalString(%q) = %v, want batch-1", padded, got)
	}
}

func TestGenerateULID(t *testing.T) {
	a, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID failed: %v", err)
	}
	b, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID failed: %v", err)
	}

	if len(a) != 26 {
		t.Errorf("ULID length = %d, want 26", len(a))
	}
	if a == b {
		t.Error("consecutive ULIDs should differ")
	}
}
