package engine

import "github.com/DedS3t/monopoly-server/app/models"

const (
	BailCost     = 50
	MaxLevel     = 3
	MaxJailTurns = 3

	maxEventChain = 3
	maxNameLength = 24
)

// rent at level L is the base rent times rentMultipliers[L-1]
var rentMultipliers = [MaxLevel]int{1, 3, 6}

// RentFor returns the rent a visitor owes on t. Unowned tiles charge nothing.
func RentFor(t models.Tile) int {
	if t.Kind != models.TileProperty || t.Level < 1 {
		return 0
	}
	level := t.Level
	if level > MaxLevel {
		level = MaxLevel
	}
	return t.Rent * rentMultipliers[level-1]
}

// UpgradeCost is the price of raising t by one level from its current level.
func UpgradeCost(t models.Tile) int {
	return t.Price * t.Level
}

// AssetValue is everything paid to bring t to its current level: the price plus
// each upgrade (price x 1, price x 2, ...).
func AssetValue(t models.Tile) int {
	if t.Kind != models.TileProperty || t.Level < 1 {
		return 0
	}
	l := t.Level
	return t.Price * (1 + l*(l-1)/2)
}
