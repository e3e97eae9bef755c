package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-server/app/models"
)

// requireTurn is the shared guard of every in-turn action.
func (g *Game) requireTurn(playerId string) (*models.Player, error) {
	if g.status != models.StatusActive {
		return nil, fmt.Errorf("%w: game is %s", ErrNotActive, g.status)
	}
	p := g.player(playerId)
	if p == nil {
		return nil, fmt.Errorf("%w: unknown player %q", ErrInvalidTarget, playerId)
	}
	if g.turn.CurrentPlayerId != playerId {
		current := g.player(g.turn.CurrentPlayerId)
		return nil, fmt.Errorf("%w: it is %s's turn", ErrNotYourTurn, current.Name)
	}
	return p, nil
}

// nextAlive returns the first player after seat idx who is not bankrupt, wrapping around.
func (g *Game) nextAlive(idx int) *models.Player {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		p := g.players[(idx+i)%n]
		if !p.Bankrupt {
			return p
		}
	}
	return nil
}

func (g *Game) advanceTurn() {
	next := g.nextAlive(g.indexOf(g.turn.CurrentPlayerId))
	if next == nil {
		return
	}
	g.turn = models.TurnState{
		CurrentPlayerId: next.Id,
		LastRoll:        g.turn.LastRoll,
		StartedAt:       g.now(),
		Number:          g.turn.Number + 1,
	}
	g.logf("It is now %s's turn", next.Name)
}

// settle hands the turn on when the current player went bankrupt during their own action.
func (g *Game) settle() {
	if g.status != models.StatusActive {
		return
	}
	if cur := g.player(g.turn.CurrentPlayerId); cur != nil && cur.Bankrupt {
		g.advanceTurn()
		g.checkVictory()
	}
}

func (g *Game) rollDie() int {
	return g.rng.Intn(6) + 1
}

// RollDice throws two dice for the current player and plays out the result:
// escaping or staying in jail, moving, and resolving the landed tile.
func (g *Game) RollDice(playerId string) (models.DiceRoll, error) {
	p, err := g.requireTurn(playerId)
	if err != nil {
		return models.DiceRoll{}, err
	}
	if g.turn.Rolled {
		return models.DiceRoll{}, ErrAlreadyRolled
	}
	if tileId, ok := g.turn.Pending.Purchase(); ok {
		return models.DiceRoll{}, fmt.Errorf("%w: buy or pass on %s first", ErrPendingDecision, g.tileById(tileId).Name)
	}

	d1, d2 := g.rollDie(), g.rollDie()
	roll := models.DiceRoll{Die1: d1, Die2: d2, Total: d1 + d2, Doubles: d1 == d2, At: g.now()}
	g.turn.Rolled = true
	g.turn.LastRoll = &roll
	g.logf("%s rolled %d and %d (%d)", p.Name, d1, d2, roll.Total)

	switch {
	case !p.InJail():
		g.advance(p, roll.Total)
	case roll.Doubles:
		p.InJailTurns = 0
		g.logf("%s rolled doubles and got out of jail", p.Name)
		g.advance(p, roll.Total)
	case p.InJailTurns == 1:
		p.InJailTurns = 0
		g.logf("%s failed a third escape attempt and paid $%d bail", p.Name, BailCost)
		g.charge(p, BailCost)
		if !p.Bankrupt {
			g.advance(p, roll.Total)
		}
	default:
		p.InJailTurns--
		g.logf("%s stays in jail (%d attempts left)", p.Name, p.InJailTurns)
	}

	g.checkVictory()
	g.settle()
	return roll, nil
}

// EndTurn passes the turn to the next player who is not bankrupt.
func (g *Game) EndTurn(playerId string) error {
	p, err := g.requireTurn(playerId)
	if err != nil {
		return err
	}
	if tileId, ok := g.turn.Pending.Purchase(); ok {
		return fmt.Errorf("%w: buy or pass on %s before ending your turn", ErrPendingDecision, g.tileById(tileId).Name)
	}
	if !g.turn.Rolled {
		if p.InJail() {
			return fmt.Errorf("%w: roll for doubles or pay bail before ending your turn", ErrMustRollFirst)
		}
		return fmt.Errorf("%w: roll the dice before ending your turn", ErrMustRollFirst)
	}

	g.logf("%s ended their turn", p.Name)
	g.advanceTurn()
	g.checkVictory()

	s := g.settings
	if g.status == models.StatusActive && s.WinCondition == models.WinHighestNetWorth &&
		s.TurnLimit > 0 && g.turn.Number > s.TurnLimit {
		return g.finishByNetWorth(fmt.Sprintf("the %d turn limit was reached", s.TurnLimit))
	}
	return nil
}
