package preset

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hstin/lidarcmap/internal/bounds"
	"hstin/lidarcmap/internal/colormap"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, name := range Names {
		cm, ok := reg.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, cm.Name())

		r, ok := reg.Lookup(name + "_r")
		require.True(t, ok, name+"_r")
		assert.Equal(t, cm.Over(), r.Under())
		assert.Equal(t, cm.Under(), r.Over())
	}

	for alias, target := range Aliases {
		a, ok := reg.Lookup(alias)
		require.True(t, ok, alias)
		cm, _ := reg.Lookup(target)
		assert.Equal(t, alias, a.Name())
		assert.Equal(t, cm.Colors(), a.Colors())

		_, ok = reg.Lookup(alias + "_r")
		assert.True(t, ok, alias+"_r")
	}

	assert.Len(t, reg.Names(), 2*(len(Names)+len(Aliases)))
	assert.Equal(t, bounds.PresetNames(), reg.BoundsNames())
}

func TestTableSizes(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	interior := map[string]int{
		"backscatter_18":  16,
		"backscatter_242": 240,
		"depol_8":         6,
		"colorratio_9":    7,
	}
	for name, want := range interior {
		cm, ok := reg.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, cm.Len(), name)
	}
}

func TestDiscretePresetsMatchTables(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, name := range reg.BoundsNames() {
		d, err := reg.Discrete(name)
		require.NoError(t, err, name)
		assert.Equal(t, d.Map.Len(), d.Bounds.Bins(), name)

		// Every bin takes its own interior row.
		for i := 0; i < d.Bounds.Bins(); i++ {
			c, rng := d.Color(d.Bounds[i])
			assert.Equal(t, bounds.Inside, rng)
			assert.Equal(t, d.Map.Index(i), c, "%s bin %d", name, i)
		}
		c, _ := d.Color(d.Bounds.Max())
		assert.Equal(t, d.Map.Over(), c)
	}
}

func TestLoadMissingResource(t *testing.T) {
	fsys := fstest.MapFS{
		"backscatter-rgb.csv": {Data: []byte("0,0,0\n1,1,1\n2,2,2\n")},
	}
	_, err := Load(fsys)
	assert.ErrorIs(t, err, colormap.ErrResourceNotFound)
}

func TestLoadTooFewRows(t *testing.T) {
	fsys := fstest.MapFS{}
	for _, name := range Names {
		fsys[colormap.FileName(name)] = &fstest.MapFile{Data: []byte("0,0,0\n1,1,1\n2,2,2\n")}
	}
	fsys[colormap.FileName("colorratio")] = &fstest.MapFile{Data: []byte("0,0,0\n255,255,255\n")}

	_, err := Load(fsys)
	assert.ErrorIs(t, err, colormap.ErrTooFewRows)
}
