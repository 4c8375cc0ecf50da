package filewatch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/opst/photoshare/pkg/utils/filewatch"
)

// waitDone waits ctx to be done, until shortly before the test deadline or timeout.
func waitDone(t *testing.T, ctx context.Context, timeout time.Duration) bool {
	t.Helper()
	deadline := time.After(timeout)
	if dl, ok := t.Deadline(); ok && time.Until(dl)-time.Second < timeout {
		deadline = time.After(time.Until(dl) - time.Second)
	}
	select {
	case <-ctx.Done():
		return true
	case <-deadline:
		return false
	}
}

func TestUntilModifyContext(t *testing.T) {
	type When struct {
		watchDir bool
		modify   func(t *testing.T, path string)
	}

	theory := func(when When, thenCanceled bool) func(*testing.T) {
		return func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(file, []byte("server: {}\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			target := file
			if when.watchDir {
				target = dir
			}
			ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), target, "")
			if err != nil {
				t.Fatal(err)
			}
			defer cancel()

			if err := ctx.Err(); err != nil {
				t.Fatalf("canceled before modification: %v", err)
			}

			when.modify(t, file)

			timeout := 5 * time.Second
			if !thenCanceled {
				timeout = 500 * time.Millisecond
			}
			if canceled := waitDone(t, ctx, timeout); canceled != thenCanceled {
				t.Fatalf("canceled = %v, want %v", canceled, thenCanceled)
			}
			if thenCanceled {
				if cause := context.Cause(ctx); cause == nil || !strings.Contains(cause.Error(), dir) {
					t.Errorf("cause should name the file: %v", cause)
				}
			}
		}
	}

	write := func(t *testing.T, path string) {
		if err := os.WriteFile(path, []byte("server: {port: 8080}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	remove := func(t *testing.T, path string) {
		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}
	}
	rename := func(t *testing.T, path string) {
		if err := os.Rename(path, path+".bak"); err != nil {
			t.Fatal(err)
		}
	}
	create := func(t *testing.T, path string) {
		if err := os.WriteFile(filepath.Join(filepath.Dir(path), "new.yaml"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	chmod := func(t *testing.T, path string) {
		if err := os.Chmod(path, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("writing the watched file cancels", theory(When{modify: write}, true))
	t.Run("removing the watched file cancels", theory(When{modify: remove}, true))
	t.Run("renaming the watched file cancels", theory(When{modify: rename}, true))
	t.Run("creating a file in the watched directory cancels", theory(When{watchDir: true, modify: create}, true))
	t.Run("writing a file in the watched directory cancels", theory(When{watchDir: true, modify: write}, true))
	t.Run("changing mode of the watched file does not cancel", theory(When{modify: chmod}, false))
}

func TestUntilModifyContext_MissingFile(t *testing.T) {
	_, _, err := filewatch.UntilModifyContext(
		context.Background(), filepath.Join(t.TempDir(), "no-such-file"),
	)
	if err == nil {
		t.Error("watching missing file should fail")
	}
}

func TestModified(t *testing.T) {
	for op, expected := range map[fsnotify.Op]bool{
		fsnotify.Write:                  true,
		fsnotify.Create:                 true,
		fsnotify.Remove:                 true,
		fsnotify.Rename:                 true,
		fsnotify.Chmod:                  false,
		fsnotify.Chmod | fsnotify.Write: true,
	} {
		if actual := filewatch.Modified(fsnotify.Event{Name: "x", Op: op}); actual != expected {
			t.Errorf("Modified(%s) = %v, want %v", op, actual, expected)
		}
	}
}
