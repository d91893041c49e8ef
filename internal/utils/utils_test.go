package utils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blacktop/ltbox/pkg/patch"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRemovedOnEveryPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	boom := errors.New("boom")

	tests := []struct {
		name    string
		f       func(dir string) error
		wantErr error
		panics  bool
	}{
		{name: "success", f: func(dir string) error {
			return afero.WriteFile(fs, filepath.Join(dir, "kernel"), []byte("k"), 0o644)
		}},
		{name: "failure", f: func(string) error { return boom }, wantErr: boom},
		{name: "panic", f: func(string) error { panic("unexpected") }, panics: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func() error { return Workspace(fs, "/work", tt.f) }
			if tt.panics {
				assert.Panics(t, func() { _ = run() })
			} else {
				err := run()
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.NoError(t, err)
				}
			}
			assert.False(t, Exists(fs, "/work"), "workspace must be removed")
		})
	}
}

func TestCopyAndMoveFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/src.xml", []byte("src"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/a/dst.xml", []byte("old"), 0o644))

	require.NoError(t, CopyFile(fs, "/a/src.xml", "/a/dst.xml"))
	data, err := afero.ReadFile(fs, "/a/dst.xml")
	require.NoError(t, err)
	assert.Equal(t, "src", string(data))

	require.NoError(t, afero.WriteFile(fs, "/a/dst.xml", []byte("old"), 0o644))
	require.NoError(t, MoveFile(fs, "/a/src.xml", "/a/dst.xml"))
	assert.False(t, Exists(fs, "/a/src.xml"))
	data, err = afero.ReadFile(fs, "/a/dst.xml")
	require.NoError(t, err)
	assert.Equal(t, "src", string(data))
}

func TestOsFs(t *testing.T) {
	assert.True(t, OsFs(afero.NewOsFs()))
	assert.False(t, OsFs(afero.NewMemMapFs()))
}

func TestWaitForDirectoryExisting(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, WaitForDirectory(ctx, t.TempDir()))
}

func TestWaitForDirectoryCreated(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "image")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.Mkdir(target, 0o755)
	}()

	assert.NoError(t, WaitForDirectory(ctx, target))
}

func TestWaitForDirectoryCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := WaitForDirectory(ctx, filepath.Join(t.TempDir(), "never"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHexContext(t *testing.T) {
	data := make([]byte, 256)
	copy(data[100:], "USXX")

	dump := HexContext(data, 100, 4, 16)
	lines := strings.Split(strings.TrimSuffix(dump, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "00000050")
	assert.Contains(t, dump, "|....USXX........|")

	assert.Empty(t, HexContext(data, 250, 10, 16))
	assert.Empty(t, HexContext(data, -1, 1, 16))
}

func TestHexPattern(t *testing.T) {
	assert.Equal(t, "2E524F57", HexPattern([]byte(".ROW")))
}

func TestPatchFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/vendor_boot.img", []byte("xx.ROWxxIROWxx"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/clean.img", []byte("nothing here"), 0o644))

	res, err := PatchFile(fs, "/vendor_boot.img", "/out.img", patch.VendorBoot())
	require.NoError(t, err)
	assert.Equal(t, patch.Patched, res.State)
	assert.Equal(t, 2, res.Occurrences)
	out, err := afero.ReadFile(fs, "/out.img")
	require.NoError(t, err)
	assert.Equal(t, "xx.PRCxxIPRCxx", string(out))

	res, err = PatchFile(fs, "/clean.img", "/clean_out.img", patch.VendorBoot())
	require.NoError(t, err)
	assert.Equal(t, patch.NotApplicable, res.State)
	out, err = afero.ReadFile(fs, "/clean_out.img")
	require.NoError(t, err)
	assert.Equal(t, "nothing here", string(out), "unchanged input is copied")

	_, err = PatchFile(fs, "/missing.img", "/x.img", patch.VendorBoot())
	assert.Error(t, err)
}

func TestInterruptibleWaitsForCleanup(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	go func() {
		<-started
		cancel()
	}()

	err := Interruptible(ctx, func(ctx context.Context) error {
		return Workspace(fs, "/working", func(dir string) error {
			close(started)
			<-ctx.Done()
			// slow teardown must still finish before Interruptible returns
			time.Sleep(50 * time.Millisecond)
			return ctx.Err()
		})
	})
	require.ErrorIs(t, err, context.Canceled)

	ok, err := afero.DirExists(fs, "/working")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInterruptibleReturnsTaskError(t *testing.T) {
	boom := errors.New("boom")
	assert.ErrorIs(t, Interruptible(context.Background(), func(context.Context) error { return boom }), boom)
	assert.NoError(t, Interruptible(context.Background(), func(context.Context) error { return nil }))
}
