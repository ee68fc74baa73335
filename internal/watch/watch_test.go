package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func start(t *testing.T, dir string) (<-chan []string, context.CancelFunc) {
	t.Helper()
	w, err := New(dir, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(_ context.Context, paths []string) { changes <- paths })
	}()
	return changes, func() {
		cancel()
		<-done
	}
}

func next(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-changes:
		return paths
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return nil
	}
}

func TestRunBatchesSourceChanges(t *testing.T) {
	dir := t.TempDir()
	changes, stop := start(t, dir)
	defer stop()

	lib := filepath.Join(dir, "lib.rs")
	require.NoError(t, os.WriteFile(lib, []byte("mod a {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	assert.Equal(t, []string{lib}, next(t, changes))
}

func TestRunFollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	changes, stop := start(t, dir)
	defer stop()

	ext := filepath.Join(dir, "extensions")
	require.NoError(t, os.Mkdir(ext, 0755))
	time.Sleep(50 * time.Millisecond)

	frag := filepath.Join(ext, "mintable.trs")
	require.NoError(t, os.WriteFile(frag, []byte("mod m {}\n"), 0644))

	assert.Contains(t, next(t, changes), frag)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), 0)
	assert.Error(t, err)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant("PSP22/lib.rs"))
	assert.True(t, relevant("PSP22/extensions/capped.trs"))
	assert.True(t, relevant("PSP22/Cargo.toml"))
	assert.False(t, relevant("README.md"))
	assert.False(t, relevant("lib.rs.swp"))
}
