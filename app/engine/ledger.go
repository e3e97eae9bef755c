package engine

import (
	"fmt"
	"sort"

	"github.com/DedS3t/monopoly-server/app/models"
)

// Standing is one row of a net worth ranking.
type Standing struct {
	PlayerId string `json:"playerId"`
	Name     string `json:"name"`
	NetWorth int    `json:"netWorth"`
}

func (g *Game) credit(p *models.Player, amount int) {
	p.Money += amount
}

// charge takes amount from p and runs the bankruptcy check. The balance may go negative.
func (g *Game) charge(p *models.Player, amount int) {
	p.Money -= amount
	g.checkBankruptcy(p)
}

func (g *Game) transfer(from, to *models.Player, amount int) {
	to.Money += amount
	g.charge(from, amount)
}

func (g *Game) checkBankruptcy(p *models.Player) {
	if p.Bankrupt || p.Money >= 0 {
		return
	}
	p.Bankrupt = true
	p.InJailTurns = 0

	released := 0
	for i := range g.tiles {
		if g.tiles[i].OwnerId == p.Id {
			g.tiles[i].OwnerId = ""
			g.tiles[i].Level = 0
			released++
		}
	}
	if g.turn.CurrentPlayerId == p.Id {
		g.turn.Pending = models.Decision{}
	}
	g.logf("%s went bankrupt and released %d properties", p.Name, released)
	g.checkVictory()
}

func (g *Game) checkVictory() {
	if g.status != models.StatusActive {
		return
	}
	alive := g.alivePlayers()
	switch len(alive) {
	case 0:
		g.finish(nil)
		g.logf("The game ended with no players left standing")
	case 1:
		g.finish(alive[0])
		g.logf("%s is the last player standing and wins the game", alive[0].Name)
	}
}

func (g *Game) finish(winner *models.Player) {
	g.status = models.StatusFinished
	g.turn.Pending = models.Decision{}
	if winner != nil {
		g.winnerId = winner.Id
	}
}

func (g *Game) alivePlayers() []*models.Player {
	var alive []*models.Player
	for _, p := range g.players {
		if !p.Bankrupt {
			alive = append(alive, p)
		}
	}
	return alive
}

func (g *Game) netWorth(p *models.Player) int {
	worth := p.Money
	for _, t := range g.tiles {
		if t.OwnerId == p.Id {
			worth += AssetValue(t)
		}
	}
	return worth
}

// NetWorth is cash plus the asset value of every owned property.
func (g *Game) NetWorth(playerId string) (int, error) {
	p := g.player(playerId)
	if p == nil {
		return 0, fmt.Errorf("%w: unknown player %q", ErrInvalidTarget, playerId)
	}
	return g.netWorth(p), nil
}

// Standings ranks players who are not bankrupt by net worth, highest first.
// Ties keep seating order.
func (g *Game) Standings() []Standing {
	alive := g.alivePlayers()
	out := make([]Standing, len(alive))
	for i, p := range alive {
		out[i] = Standing{PlayerId: p.Id, Name: p.Name, NetWorth: g.netWorth(p)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NetWorth > out[j].NetWorth
	})
	return out
}

// FinishByNetWorth ends the game and crowns the richest player. Host only;
// calling it on a finished game does nothing.
func (g *Game) FinishByNetWorth(callerId string) error {
	if callerId != g.hostId {
		return fmt.Errorf("%w: only the host can finish the game", ErrUnauthorized)
	}
	if g.status == models.StatusFinished {
		return nil
	}
	if g.status != models.StatusActive {
		return fmt.Errorf("%w: game is %s", ErrNotActive, g.status)
	}
	return g.finishByNetWorth("the host ended the game")
}

func (g *Game) finishByNetWorth(reason string) error {
	standings := g.Standings()
	if len(standings) == 0 {
		return ErrNoActivePlayers
	}
	top := standings[0]
	g.finish(g.player(top.PlayerId))
	g.logf("Game over, %s: %s wins with a net worth of $%d", reason, top.Name, top.NetWorth)
	return nil
}
