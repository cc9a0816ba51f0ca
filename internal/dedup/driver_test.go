package dedup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// TestDriverHardLinkMode mirrors scenario S2 of spec.md §8: tree
// {a: "hello", b: "hello", c: "world"}, run with --hardlinks. Expect a and b
// to share an inode afterwards and 5 bytes reported saved; c untouched.
func TestDriverHardLinkMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "hello")
	writeFile(t, root, "b", "hello")
	writeFile(t, root, "c", "world")

	d := &Driver{Out: &bytes.Buffer{}, Opts: Options{HardLinks: true, Quiet: true}}
	saved, err := d.Run([]string{root})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), saved)

	aInfo, err := os.Stat(filepath.Join(root, "a"))
	require.NoError(t, err)
	bInfo, err := os.Stat(filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.True(t, os.SameFile(aInfo, bInfo))

	data, err := os.ReadFile(filepath.Join(root, "c"))
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))
}

// TestDriverDryRunReportsSavingsWithoutMutating mirrors scenario S3: same
// tree, --dryrun. No inode changes, but the same bytes-saved total is
// still reported.
func TestDriverDryRunReportsSavingsWithoutMutating(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "hello")
	writeFile(t, root, "b", "hello")
	writeFile(t, root, "c", "world")

	aBefore, err := os.Stat(filepath.Join(root, "a"))
	require.NoError(t, err)
	bBefore, err := os.Stat(filepath.Join(root, "b"))
	require.NoError(t, err)

	d := &Driver{Out: &bytes.Buffer{}, Opts: Options{DryRun: true, HardLinks: true, Quiet: true}}
	saved, err := d.Run([]string{root})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), saved)

	aAfter, err := os.Stat(filepath.Join(root, "a"))
	require.NoError(t, err)
	bAfter, err := os.Stat(filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.False(t, os.SameFile(aBefore, bAfter))
	assert.True(t, os.SameFile(aBefore, aAfter))
	assert.True(t, os.SameFile(bBefore, bAfter))
}

// TestDriverIdempotence mirrors invariant 2 of spec.md §8: running twice in
// succession yields zero additional bytes saved on the second run.
func TestDriverIdempotence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "hello")
	writeFile(t, root, "b", "hello")

	d := &Driver{Out: &bytes.Buffer{}, Opts: Options{HardLinks: true, Quiet: true}}
	_, err := d.Run([]string{root})
	require.NoError(t, err)

	saved, err := d.Run([]string{root})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), saved)
}

// TestDriverSizeBucketFilter mirrors scenario S5: no two files share both
// size and content, so zero links and zero bytes saved result.
func TestDriverSizeBucketFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", "abcd")
	writeFile(t, root, "b", "efgh")
	writeFile(t, root, "c", "abcdabcd")

	d := &Driver{Out: &bytes.Buffer{}, Opts: Options{HardLinks: true, Quiet: true}}
	saved, err := d.Run([]string{root})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), saved)
}

func TestDriverReportsPreflightFailureButContinues(t *testing.T) {
	good := t.TempDir()
	writeFile(t, good, "a", "hello")
	writeFile(t, good, "b", "hello")
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	d := &Driver{Out: &bytes.Buffer{}, Opts: Options{HardLinks: true, Quiet: true}}
	saved, err := d.Run([]string{missing, good})
	assert.Error(t, err)
	assert.Equal(t, uint64(5), saved)
}
