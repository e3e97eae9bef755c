package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-server/app/models"
)

func (g *Game) BuyProperty(playerId, tileId string) error {
	p, err := g.requireTurn(playerId)
	if err != nil {
		return err
	}
	if pending, ok := g.turn.Pending.Purchase(); !ok || pending != tileId {
		return ErrNoPendingPurchase
	}
	t := g.tileById(tileId)
	if t == nil {
		return fmt.Errorf("%w: unknown property %q", ErrInvalidTarget, tileId)
	}
	if t.OwnerId != "" {
		return fmt.Errorf("%w: %s", ErrAlreadyOwned, t.Name)
	}
	if p.Money < t.Price {
		return fmt.Errorf("%w: %s costs $%d, you have $%d", ErrInsufficientFunds, t.Name, t.Price, p.Money)
	}

	p.Money -= t.Price
	t.OwnerId = p.Id
	t.Level = 1
	g.turn.Pending = models.Decision{}
	g.logf("%s bought %s for $%d", p.Name, t.Name, t.Price)
	g.checkVictory()
	return nil
}

func (g *Game) PassPurchase(playerId string) error {
	p, err := g.requireTurn(playerId)
	if err != nil {
		return err
	}
	tileId, ok := g.turn.Pending.Purchase()
	if !ok {
		return ErrNothingToPass
	}
	g.turn.Pending = models.Decision{}
	g.logf("%s passed on buying %s", p.Name, g.tileById(tileId).Name)
	return nil
}

// UpgradeProperty raises an owned property by one level. Only possible right after
// landing on it, while the upgrade offer is still open.
func (g *Game) UpgradeProperty(playerId, tileId string) error {
	p, err := g.requireTurn(playerId)
	if err != nil {
		return err
	}
	if offered, ok := g.turn.Pending.Upgrade(); !ok || offered != tileId {
		return ErrNoUpgradeOffer
	}
	t := g.tileById(tileId)
	if t == nil {
		return fmt.Errorf("%w: unknown property %q", ErrInvalidTarget, tileId)
	}
	if t.OwnerId != p.Id {
		return fmt.Errorf("%w: you do not own %s", ErrUnauthorized, t.Name)
	}
	if p.Position != t.Index {
		return fmt.Errorf("%w: you are not on %s", ErrInvalidTarget, t.Name)
	}
	if t.Level >= MaxLevel {
		return fmt.Errorf("%w: %s is level %d", ErrMaxLevel, t.Name, t.Level)
	}
	cost := UpgradeCost(*t)
	if p.Money < cost {
		return fmt.Errorf("%w: upgrading %s costs $%d, you have $%d", ErrInsufficientFunds, t.Name, cost, p.Money)
	}

	t.Level++
	g.turn.Pending = models.Decision{}
	g.logf("%s upgraded %s to level %d for $%d", p.Name, t.Name, t.Level, cost)
	g.charge(p, cost)
	g.settle()
	return nil
}

// PayBail buys the current player out of jail. Only before rolling.
func (g *Game) PayBail(playerId string) error {
	p, err := g.requireTurn(playerId)
	if err != nil {
		return err
	}
	if !p.InJail() {
		return ErrNotInJail
	}
	if g.turn.Rolled {
		return fmt.Errorf("%w: bail can only be paid before rolling", ErrAlreadyRolled)
	}
	if p.Money < BailCost {
		return fmt.Errorf("%w: bail is $%d, you have $%d", ErrInsufficientFunds, BailCost, p.Money)
	}

	p.InJailTurns = 0
	g.logf("%s paid $%d bail and left jail", p.Name, BailCost)
	g.charge(p, BailCost)
	g.settle()
	return nil
}
