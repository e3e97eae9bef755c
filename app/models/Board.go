package models

import "fmt"

type TileKind int

const (
	TileStart TileKind = iota
	TileProperty
	TileTax
	TileEvent
	TileJail
	TileGoToJail
	TileFree
)

var tileKindNames = map[TileKind]string{
	TileStart:    "start",
	TileProperty: "property",
	TileTax:      "tax",
	TileEvent:    "event",
	TileJail:     "jail",
	TileGoToJail: "go-to-jail",
	TileFree:     "free",
}

func (k TileKind) String() string {
	if name, ok := tileKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TileKind(%d)", int(k))
}

func ParseTileKind(s string) (TileKind, error) {
	for k, name := range tileKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tile kind %q", s)
}

func (k TileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TileKind) UnmarshalText(b []byte) error {
	parsed, err := ParseTileKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TileTemplate is the immutable definition of one board position.
// Price, Rent and Group are only meaningful for properties, Amount only for tax tiles.
type TileTemplate struct {
	Id     string   `json:"id"`
	Name   string   `json:"name"`
	Kind   TileKind `json:"kind"`
	Price  int      `json:"price,omitempty"`
	Rent   int      `json:"rent,omitempty"`
	Group  string   `json:"group,omitempty"`
	Amount int      `json:"amount,omitempty"`
}

// Tile is a per-game copy of a template carrying ownership.
type Tile struct {
	TileTemplate
	Index   int    `json:"index"`
	OwnerId string `json:"ownerId,omitempty"`
	Level   int    `json:"level"`
}

type Board struct {
	Name  string         `json:"name"`
	Tiles []TileTemplate `json:"tiles"`
}

func (b Board) Size() int {
	return len(b.Tiles)
}

// Validate checks that tile ids are unique and that exactly one jail exists.
func (b Board) Validate() error {
	if len(b.Tiles) == 0 {
		return fmt.Errorf("board %q has no tiles", b.Name)
	}
	if b.Tiles[0].Kind != TileStart {
		return fmt.Errorf("board %q must begin with a start tile", b.Name)
	}
	seen := make(map[string]bool, len(b.Tiles))
	jails := 0
	for i, t := range b.Tiles {
		if t.Id == "" || seen[t.Id] {
			return fmt.Errorf("board %q: tile %d has missing or duplicate id %q", b.Name, i, t.Id)
		}
		seen[t.Id] = true
		if t.Kind == TileJail {
			jails++
		}
		if t.Kind == TileProperty && (t.Price <= 0 || t.Rent <= 0) {
			return fmt.Errorf("board %q: property %q needs a price and rent", b.Name, t.Id)
		}
	}
	if jails != 1 {
		return fmt.Errorf("board %q must have exactly one jail, found %d", b.Name, jails)
	}
	return nil
}

// NewTiles returns fresh mutable copies of the template, indexed by position.
func (b Board) NewTiles() []Tile {
	tiles := make([]Tile, len(b.Tiles))
	for i, t := range b.Tiles {
		tiles[i] = Tile{TileTemplate: t, Index: i}
	}
	return tiles
}
