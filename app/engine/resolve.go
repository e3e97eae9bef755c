package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-server/app/models"
)

// advance moves p forward by steps and resolves the tile it lands on.
func (g *Game) advance(p *models.Player, steps int) {
	g.moveBy(p, steps)
	g.resolveTile(p, 0)
}

// moveBy moves p by steps. Forward moves pay the pass-start bonus once per full
// lap of the board; backward moves never do.
func (g *Game) moveBy(p *models.Player, steps int) {
	n := len(g.tiles)
	if steps < 0 {
		p.Position = ((p.Position+steps)%n + n) % n
		return
	}
	total := p.Position + steps
	p.Position = total % n
	g.payPassStart(p, total/n)
}

// moveTo advances p to index, wrapping past start when index is behind it.
func (g *Game) moveTo(p *models.Player, index int) {
	laps := 0
	if index < p.Position {
		laps = 1
	}
	p.Position = index
	g.payPassStart(p, laps)
}

func (g *Game) payPassStart(p *models.Player, laps int) {
	if laps <= 0 {
		return
	}
	bonus := laps * g.settings.PassStartBonus
	g.credit(p, bonus)
	if laps == 1 {
		g.logf("%s passed Start and collected $%d", p.Name, bonus)
	} else {
		g.logf("%s passed Start %d times and collected $%d", p.Name, laps, bonus)
	}
}

func (g *Game) sendToJail(p *models.Player) {
	p.Position = g.jailIndex
	p.InJailTurns = MaxJailTurns
	g.turn.Pending = models.Decision{}
	g.logf("%s was sent to jail", p.Name)
}

// resolveTile applies the effect of the tile under p. depth counts the event cards
// already drawn in this chain; narration that would repeat a card is skipped when depth > 0.
func (g *Game) resolveTile(p *models.Player, depth int) {
	if p.Bankrupt || g.status != models.StatusActive {
		return
	}
	t := &g.tiles[p.Position]
	viaEvent := depth > 0

	switch t.Kind {
	case models.TileStart:
		if !viaEvent {
			g.logf("%s landed on %s", p.Name, t.Name)
		}
	case models.TileProperty:
		g.resolveProperty(p, t)
	case models.TileTax:
		g.logf("%s paid $%d for %s", p.Name, t.Amount, t.Name)
		g.charge(p, t.Amount)
	case models.TileEvent:
		g.drawEvent(p, t, depth)
	case models.TileJail:
		if !viaEvent {
			g.logf("%s is just visiting jail", p.Name)
		}
	case models.TileGoToJail:
		g.sendToJail(p)
	case models.TileFree:
		if !viaEvent {
			g.logf("%s is taking a rest at %s", p.Name, t.Name)
		}
	default:
		panic(fmt.Sprintf("engine: unhandled tile kind %v", t.Kind))
	}
}

func (g *Game) resolveProperty(p *models.Player, t *models.Tile) {
	switch {
	case t.OwnerId == "":
		g.turn.Pending = models.AwaitPurchase(t.Id)
		g.logf("%s landed on %s, which is for sale for $%d", p.Name, t.Name, t.Price)
	case t.OwnerId == p.Id:
		if t.Level < MaxLevel {
			g.turn.Pending = models.AwaitUpgrade(t.Id)
			g.logf("%s can upgrade %s to level %d for $%d", p.Name, t.Name, t.Level+1, UpgradeCost(*t))
		} else {
			g.logf("%s visited their own %s", p.Name, t.Name)
		}
	default:
		owner := g.player(t.OwnerId)
		if owner == nil || owner.Bankrupt {
			g.logf("%s landed on %s, no rent is due", p.Name, t.Name)
			return
		}
		rent := RentFor(*t)
		g.logf("%s paid $%d rent to %s for %s", p.Name, rent, owner.Name, t.Name)
		g.transfer(p, owner, rent)
	}
}

func (g *Game) drawEvent(p *models.Player, t *models.Tile, depth int) {
	if depth >= maxEventChain {
		g.logf("%s landed on %s, no more cards this turn", p.Name, t.Name)
		return
	}
	card, ok := g.deck.Draw()
	if !ok {
		g.logf("%s landed on %s but the deck is empty", p.Name, t.Name)
		return
	}
	g.logf("%s drew an event card: %s", p.Name, card.Text)
	g.applyCard(p, card, depth+1)
}

// applyCard runs the effects of card in order. Going to jail ends the card,
// and so does losing the game along the way.
func (g *Game) applyCard(p *models.Player, card models.Card, depth int) {
	for _, e := range card.Effects {
		if p.Bankrupt || g.status != models.StatusActive {
			return
		}
		switch e.Kind {
		case models.EffectMoney:
			if e.Amount >= 0 {
				g.logf("%s received $%d", p.Name, e.Amount)
				g.credit(p, e.Amount)
			} else {
				g.logf("%s paid $%d", p.Name, -e.Amount)
				g.charge(p, -e.Amount)
			}
		case models.EffectJail:
			g.sendToJail(p)
			return
		case models.EffectMove:
			g.turn.Pending = models.Decision{}
			g.moveBy(p, e.Steps)
			g.logf("%s moved to %s", p.Name, g.tiles[p.Position].Name)
			g.resolveTile(p, depth)
		case models.EffectTeleport:
			g.turn.Pending = models.Decision{}
			g.moveTo(p, e.Target)
			g.logf("%s advanced to %s", p.Name, g.tiles[p.Position].Name)
			g.resolveTile(p, depth)
		}
		if p.InJail() {
			return
		}
	}
}
