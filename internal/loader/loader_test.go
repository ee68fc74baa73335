package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const baseLib = `
#[ink::contract]
mod token {
    #[ink(storage)]
    pub struct Token {
        balance: u128,
    }
}
`

func contractsFS() fstest.MapFS {
	ext := func(name string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte("#[smart_beaver::extension]\nmod " + name + " {}\n")}
	}
	return fstest.MapFS{
		"PSP22/lib.rs":                          {Data: []byte(baseLib)},
		"PSP22/errors.rs":                       {Data: []byte("// errors\npub enum PSP22Error {}\n")},
		"PSP22/extensions/mintable.trs":         ext("mintable"),
		"PSP22/extensions/burnable.trs":         ext("burnable"),
		"PSP22/extensions/security/ownable.trs": ext("ownable"),
		"PSP22/extensions/pausable.trs":         {Data: []byte("mod pausable {")},
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "PSP22/lib.rs", BasePath(contract.PSP22))
	assert.Equal(t, "PSP34/extensions/security/access_control.trs", ExtensionPath(contract.PSP34, contract.AccessControl))
	assert.Equal(t, "PSP22/Cargo.toml", StaticPath(contract.PSP22, "Cargo.toml"))
}

func TestLoadKeepsExtensionOrder(t *testing.T) {
	l := New(NewFSSource(contractsFS()))

	b, err := l.Load(context.Background(), contract.PSP22, []string{"security/ownable", "mintable", "burnable"})
	require.NoError(t, err)

	_, err = syntax.MainDecl(b.Base, syntax.MustAttr("#[ink::contract]"))
	require.NoError(t, err)

	require.Len(t, b.Extensions, 3)
	want := []contract.ExtensionKind{contract.Ownable, contract.Mintable, contract.Burnable}
	for i, e := range b.Extensions {
		assert.Equal(t, want[i], e.Kind)
		main, err := syntax.MainDecl(e.Module, syntax.MustAttr("#[smart_beaver::extension]"))
		require.NoError(t, err)
		assert.NotEmpty(t, main.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	l := New(NewFSSource(contractsFS()))
	ctx := context.Background()

	_, err := l.Load(ctx, contract.PSP22, []string{"unknown"})
	assert.ErrorIs(t, err, contract.ErrUnknownExtension)

	_, err = l.Load(ctx, contract.PSP22, []string{"capped"})
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = l.Load(ctx, contract.PSP34, nil)
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = l.Load(ctx, contract.PSP22, []string{"pausable"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extension pausable")
}

func TestStatic(t *testing.T) {
	l := New(NewFSSource(contractsFS()))
	got, err := l.Static(context.Background(), contract.PSP22, "errors.rs")
	require.NoError(t, err)
	assert.Equal(t, "// errors\npub enum PSP22Error {}\n", got)
}

func TestDirSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFSSource(contractsFS()).Fetch(ctx, "PSP22/lib.rs")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/contracts/PSP22/lib.rs":
			_, _ = w.Write([]byte(baseLib))
		case "/contracts/PSP22/moved.rs":
			http.Redirect(w, r, "/nowhere", http.StatusMovedPermanently)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/contracts/", 5*time.Second)
	defer src.Client.CloseIdleConnections()
	ctx := context.Background()

	got, err := src.Fetch(ctx, "PSP22/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, baseLib, got)

	_, err = src.Fetch(ctx, "PSP22/data.rs")
	var derr *DownloadError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, http.StatusNotFound, derr.StatusCode)
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = src.Fetch(ctx, "PSP22/moved.rs")
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, http.StatusNotFound, derr.StatusCode, "redirects are followed")
}

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (s *countingSource) Fetch(ctx context.Context, path string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return "content of " + path, nil
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{}
	c, err := NewCachedSource(inner, 2, time.Minute)
	require.NoError(t, err)

	clock := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(ctx, "PSP22/lib.rs")
		require.NoError(t, err)
		assert.Equal(t, "content of PSP22/lib.rs", got)
	}
	assert.EqualValues(t, 1, inner.calls.Load())

	clock = clock.Add(2 * time.Minute)
	_, err = c.Fetch(ctx, "PSP22/lib.rs")
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.calls.Load(), "expired entries are refetched")

	_, _ = c.Fetch(ctx, "a")
	_, _ = c.Fetch(ctx, "b")
	assert.Equal(t, 2, c.Len(), "bounded by size")

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestCachedSourceSkipsFailures(t *testing.T) {
	inner := &countingSource{err: ErrNotExist}
	c, err := NewCachedSource(inner, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultCacheTTL, c.ttl)

	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNotExist)
	}
	assert.EqualValues(t, 2, inner.calls.Load())

	_, err = NewCachedSource(inner, 0, 0)
	assert.Error(t, err)
}
