package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanFindsTablesSorted(t *testing.T) {
	tablesDir := t.TempDir()
	mediaDir := t.TempDir()

	writeFile(t, filepath.Join(tablesDir, "Zedpin.vpx"))
	writeFile(t, filepath.Join(tablesDir, "Attack.vpx"))
	writeFile(t, filepath.Join(tablesDir, "notes.txt"))

	out, err := Scan(tablesDir, mediaDir, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Attack", out[0].Name)
	assert.Equal(t, "Zedpin", out[1].Name)
}

func TestScanResolvesOnlyExistingMedia(t *testing.T) {
	tablesDir := t.TempDir()
	mediaDir := t.TempDir()

	writeFile(t, filepath.Join(tablesDir, "Attack.vpx"))
	writeFile(t, filepath.Join(mediaDir, "Attack", "table.png"))
	writeFile(t, filepath.Join(mediaDir, "Attack", "table.mp4"))

	out, err := Scan(tablesDir, mediaDir, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, out, 1)

	tbl := out[0]
	assert.NotEmpty(t, tbl.PlayfieldImage)
	assert.NotEmpty(t, tbl.PlayfieldVideo)
	assert.Empty(t, tbl.WheelImage, "missing media resolves to empty path")
	assert.Empty(t, tbl.BackglassVideo)
	assert.Empty(t, tbl.DMDVideo)
}

func TestScanEmptyDirYieldsNoTables(t *testing.T) {
	out, err := Scan(t.TempDir(), t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, out)
}
