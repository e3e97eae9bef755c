package board

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/DedS3t/monopoly-server/app/models"
)

//go:embed boards.json
var boardsJSON []byte

//go:embed cards.json
var cardsJSON []byte

// Catalog holds the boards and the event card set a server can host games on.
type Catalog struct {
	boards map[string]models.Board
	cards  []models.Card
}

func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(boardsJSON, cardsJSON)
}

func ParseCatalog(boardsData, cardsData []byte) (*Catalog, error) {
	var boards []models.Board
	if err := json.Unmarshal(boardsData, &boards); err != nil {
		return nil, fmt.Errorf("parse boards: %w", err)
	}
	var cards []models.Card
	if err := json.Unmarshal(cardsData, &cards); err != nil {
		return nil, fmt.Errorf("parse cards: %w", err)
	}

	c := &Catalog{boards: make(map[string]models.Board, len(boards)), cards: cards}
	for _, b := range boards {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		for _, card := range cards {
			if err := card.Validate(b.Size()); err != nil {
				return nil, fmt.Errorf("board %q: %w", b.Name, err)
			}
		}
		c.boards[b.Name] = b
	}
	if _, ok := c.boards[models.DefaultBoardName]; !ok {
		return nil, fmt.Errorf("missing default board %q", models.DefaultBoardName)
	}
	return c, nil
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.boards[name]
	return ok
}

// Board returns the named board, or the default board for unknown names.
func (c *Catalog) Board(name string) models.Board {
	if b, ok := c.boards[name]; ok {
		return b
	}
	return c.boards[models.DefaultBoardName]
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.boards))
	for name := range c.boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Cards() []models.Card {
	return append([]models.Card(nil), c.cards...)
}
