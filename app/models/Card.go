package models

import "fmt"

type EffectKind string

const (
	EffectMoney    EffectKind = "money"
	EffectMove     EffectKind = "move"
	EffectTeleport EffectKind = "teleport"
	EffectJail     EffectKind = "jail"
)

// Effect is one step of an event card. Only the field matching Kind is read:
// Amount for money, Steps for move (negative moves backwards), Target for teleport.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
	Steps  int        `json:"steps,omitempty"`
	Target int        `json:"target,omitempty"`
}

// Card effects are applied in slice order.
type Card struct {
	Id      string   `json:"id"`
	Text    string   `json:"text"`
	Effects []Effect `json:"effects"`
}

func (c Card) Validate(boardSize int) error {
	if len(c.Effects) == 0 {
		return fmt.Errorf("card %q has no effects", c.Id)
	}
	for _, e := range c.Effects {
		switch e.Kind {
		case EffectMoney, EffectJail:
		case EffectMove:
			if e.Steps == 0 {
				return fmt.Errorf("card %q: move effect needs steps", c.Id)
			}
		case EffectTeleport:
			if e.Target < 0 || e.Target >= boardSize {
				return fmt.Errorf("card %q: teleport target %d outside board", c.Id, e.Target)
			}
		default:
			return fmt.Errorf("card %q: unknown effect %q", c.Id, e.Kind)
		}
	}
	return nil
}
