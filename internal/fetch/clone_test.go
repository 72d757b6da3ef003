package fetch_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dsablic/licbundle/internal/fetch"
)

func TestCloneAndCleanup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping clone test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cloner := fetch.NewCloner(nil)

	// Clone a small public repo
	dir, cleanup, err := cloner.Clone(ctx, "https://github.com/kelseyhightower/nocode.git", "")
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read cloned dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("cloned directory is empty")
	}

	// Cleanup should remove the directory
	cleanup()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected directory to be removed after cleanup, but it still exists")
	}
}

func TestCloneMissingRepo(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := fetch.NewCloner(nil).Clone(ctx, "file:///nonexistent/licbundle/repo.git", "main")
	if err == nil {
		t.Fatal("expected an error cloning a missing repository")
	}
}
