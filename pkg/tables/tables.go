package tables

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Table describes one scanned table file and the media derived for it. Media
// paths are empty when the file does not exist on disk, so consumers treat
// those slots as intentionally absent.
type Table struct {
	Name string
	Path string

	PlayfieldImage string
	WheelImage     string
	BackglassImage string
	DMDImage       string

	PlayfieldVideo string
	BackglassVideo string
	DMDVideo       string
}

const tableExt = ".vpx"

// Media files are looked up per table under mediaDir/<table name>/.
const (
	playfieldImageFile = "table.png"
	wheelImageFile     = "wheel.png"
	backglassImageFile = "backglass.png"
	dmdImageFile       = "dmd.png"
	playfieldVideoFile = "table.mp4"
	backglassVideoFile = "backglass.mp4"
	dmdVideoFile       = "dmd.mp4"
)

// Scan walks tablesDir for table files and derives each table's media paths
// by convention under mediaDir. The result is sorted by display name.
func Scan(tablesDir, mediaDir string, log zerolog.Logger) ([]Table, error) {
	var out []Table

	err := filepath.WalkDir(tablesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), tableExt) {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t := Table{
			Name: name,
			Path: path,

			PlayfieldImage: mediaPath(mediaDir, name, playfieldImageFile),
			WheelImage:     mediaPath(mediaDir, name, wheelImageFile),
			BackglassImage: mediaPath(mediaDir, name, backglassImageFile),
			DMDImage:       mediaPath(mediaDir, name, dmdImageFile),

			PlayfieldVideo: mediaPath(mediaDir, name, playfieldVideoFile),
			BackglassVideo: mediaPath(mediaDir, name, backglassVideoFile),
			DMDVideo:       mediaPath(mediaDir, name, dmdVideoFile),
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	log.Info().Int("tables", len(out)).Str("dir", tablesDir).Msg("table scan completed")
	return out, nil
}

// mediaPath resolves one media file for a table, returning "" when the file
// is missing so the slot stays empty.
func mediaPath(mediaDir, name, file string) string {
	p := filepath.Join(mediaDir, name, file)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}
