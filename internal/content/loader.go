package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default content shipped with the binary. A data dir, when configured,
// overlays it file by file.
//
//go:embed data
var defaultContent embed.FS

// Default returns the embedded content library.
func Default() (*Library, error) {
	sub, err := fs.Sub(defaultContent, "data")
	if err != nil {
		return nil, fmt.Errorf("embedded content: %w", err)
	}
	lib := NewLibrary()
	if err := lib.loadFS(sub); err != nil {
		return nil, fmt.Errorf("load embedded content: %w", err)
	}
	return lib, nil
}

// Load returns the embedded defaults overlaid with YAML files from dir.
// Characters and locations replace by id; events append; a baseline.yaml
// replaces the global baseline. An empty dir returns the defaults.
func Load(dir string) (*Library, error) {
	lib, err := Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return lib, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content dir %s does not exist", dir)
	}
	if err := lib.loadFS(os.DirFS(dir)); err != nil {
		return nil, fmt.Errorf("load content dir %s: %w", dir, err)
	}
	return lib, nil
}

func (l *Library) loadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".yaml") {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}

		switch {
		case path.Base(p) == "baseline.yaml":
			var bf baselineFile
			if err := yaml.Unmarshal(data, &bf); err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			if bf.Baseline != nil {
				l.baseline = bf.Baseline
			}
		case strings.HasPrefix(p, "characters/"):
			var c Character
			if err := yaml.Unmarshal(data, &c); err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			if c.ID == "" {
				return fmt.Errorf("character file %s missing id", p)
			}
			l.characters[c.ID] = c
		case strings.HasPrefix(p, "locations/"):
			var loc Location
			if err := yaml.Unmarshal(data, &loc); err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			if loc.ID == "" {
				return fmt.Errorf("location file %s missing id", p)
			}
			l.locations[loc.ID] = loc
		case path.Base(p) == "events.yaml":
			var ef eventsFile
			if err := yaml.Unmarshal(data, &ef); err != nil {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			l.meetings = append(l.meetings, ef.Meetings...)
			l.seasonal = append(l.seasonal, ef.Seasonal...)
			l.arcs = append(l.arcs, ef.Arcs...)
		}
		return nil
	})
}
