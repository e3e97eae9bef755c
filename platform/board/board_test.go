package board

import (
	"testing"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"classic", "express"}, c.Names())
	assert.True(t, c.Has("express"))
	assert.False(t, c.Has("moon"))
	assert.NotEmpty(t, c.Cards())

	classic := c.Board("classic")
	assert.Equal(t, 20, classic.Size())
	assert.Equal(t, "classic", c.Board("moon").Name)
}

func TestClassicBoardLayout(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)
	classic := c.Board(models.DefaultBoardName)

	kinds := map[int]models.TileKind{
		0:  models.TileStart,
		2:  models.TileProperty,
		5:  models.TileJail,
		10: models.TileFree,
		15: models.TileGoToJail,
	}
	for idx, kind := range kinds {
		assert.Equal(t, kind, classic.Tiles[idx].Kind, "tile %d", idx)
	}
	assert.Equal(t, "t5", classic.Tiles[5].Id)
}

func TestParseCatalogRejectsBadData(t *testing.T) {
	_, err := ParseCatalog([]byte(`[{"name":"classic","tiles":[{"id":"t0","kind":"lava"}]}]`), []byte(`[]`))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte(`[{"name":"other","tiles":[{"id":"t0","kind":"start"},{"id":"t1","kind":"jail"}]}]`), []byte(`[]`))
	assert.Error(t, err)

	_, err = ParseCatalog(
		[]byte(`[{"name":"classic","tiles":[{"id":"t0","kind":"start"},{"id":"t1","kind":"jail"}]}]`),
		[]byte(`[{"id":"far","text":"x","effects":[{"kind":"teleport","target":9}]}]`),
	)
	assert.Error(t, err)
}
