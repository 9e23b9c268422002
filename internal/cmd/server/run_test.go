package serverrun

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cfgpkg "github.com/ar0085/status-page/internal/config"
	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
)

func TestGetenvDefault(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{
			name:     "environment variable set",
			key:      "TEST_VAR",
			def:      "default",
			envValue: "env_value",
			expected: "env_value",
		},
		{
			name:     "environment variable not set",
			key:      "TEST_VAR_NOT_SET",
			def:      "default",
			envValue: "",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				_ = os.Setenv(tt.key, tt.envValue)
			} else {
				_ = os.Unsetenv(tt.key)
			}
			t.Cleanup(func() { _ = os.Unsetenv(tt.key) })

			if got := getenvDefault(tt.key, tt.def); got != tt.expected {
				t.Errorf("getenvDefault(%s, %s) = %s, expected %s", tt.key, tt.def, got, tt.expected)
			}
		})
	}
}

func TestDataDirFallback(t *testing.T) {
	opts := Options{DataDir: ""}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.DataDir == "" {
		t.Fatal("expected DataDir to be set after fallback")
	}
	if !strings.Contains(opts.DataDir, "status-page") {
		t.Errorf("DataDir should name the application, got %s", opts.DataDir)
	}

	opts = Options{DataDir: "/custom/data"}
	if opts.DataDir != "/custom/data" {
		t.Errorf("provided DataDir should be preserved, got %s", opts.DataDir)
	}
}

func TestDataDirStoreSubdirectory(t *testing.T) {
	baseDir := "/tmp/status-page"
	storeDir := filepath.Join(baseDir, "store")
	if storeDir != "/tmp/status-page/store" {
		t.Errorf("unexpected store dir %s", storeDir)
	}
}

// TestRunIntegration verifies Run starts and shuts down cleanly. Minimal
// by design since Run binds a real listener.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	opts := Options{
		DataDir:       t.TempDir(),
		HTTPAddr:      ":0",
		Fsync:         pebblestore.FsyncModeNever,
		FsyncInterval: 1 * time.Millisecond,
		Config:        cfgpkg.Default(),
		Seed:          true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := Run(ctx, opts)
	if err != nil && err != context.DeadlineExceeded && err != context.Canceled {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
