// Package preset builds the standard lidar colormap registry from the
// embedded RGB tables.
package preset

import (
	"embed"
	"fmt"
	"io/fs"

	"hstin/lidarcmap/internal/bounds"
	"hstin/lidarcmap/internal/colormap"
)

//go:embed rgb/*.csv
var embedded embed.FS

// Names lists the colormaps backed by an RGB table.
var Names = []string{
	"backscatter", "backscatter_discrete", "backscatter_continuous",
	"depolarization", "depolarization_discrete",
	"colorratio", "colorratio_discrete",
}

// Aliases maps the count-named generation of presets onto the tables they
// share with the descriptive names.
var Aliases = map[string]string{
	"backscatter_18":  "backscatter_discrete",
	"backscatter_242": "backscatter_continuous",
	"depol_8":         "depolarization_discrete",
	"colorratio_9":    "colorratio_discrete",
	"depol":           "depolarization",
}

// FS returns the embedded tables rooted at the directory holding the csv
// files.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "rgb")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load builds a registry holding every table in Names, its reversed variant,
// every alias and every boundary preset. The first missing or malformed
// table aborts the load.
func Load(fsys fs.FS) (*colormap.Registry, error) {
	reg := colormap.NewRegistry()

	for _, name := range Names {
		table, err := colormap.LoadTable(fsys, name)
		if err != nil {
			return nil, err
		}
		cm, err := colormap.New(name, table)
		if err != nil {
			return nil, err
		}
		reg.Register(cm)
		reg.Register(cm.Reversed())
	}

	for alias, target := range Aliases {
		cm, ok := reg.Lookup(target)
		if !ok {
			return nil, fmt.Errorf("alias %s: %w: %s", alias, colormap.ErrResourceNotFound, target)
		}
		reg.Register(cm.WithName(alias))
		reg.Register(cm.Reversed().WithName(alias + colormap.ReversedSuffix))
	}

	for _, name := range bounds.PresetNames() {
		b, _ := bounds.Preset(name)
		if err := reg.RegisterBounds(name, b); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Default loads the registry from the embedded tables.
func Default() (*colormap.Registry, error) {
	return Load(FS())
}
