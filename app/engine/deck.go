package engine

import "github.com/DedS3t/monopoly-server/app/models"

// Deck is a draw pile consumed front to back. When it runs dry a freshly
// shuffled copy of the full card set replaces it.
type Deck struct {
	cards []models.Card
	pile  []models.Card
	rng   Rand
}

func NewDeck(cards []models.Card, rng Rand) *Deck {
	d := &Deck{cards: append([]models.Card(nil), cards...), rng: rng}
	d.reshuffle()
	return d
}

func (d *Deck) reshuffle() {
	d.pile = append(d.pile[:0], d.cards...)
	d.rng.Shuffle(len(d.pile), func(i, j int) {
		d.pile[i], d.pile[j] = d.pile[j], d.pile[i]
	})
}

// Draw returns the top card. ok is false only when the deck has no cards at all.
func (d *Deck) Draw() (card models.Card, ok bool) {
	if len(d.pile) == 0 {
		d.reshuffle()
	}
	if len(d.pile) == 0 {
		return models.Card{}, false
	}
	card = d.pile[0]
	d.pile = d.pile[1:]
	return card, true
}

func (d *Deck) Remaining() int {
	return len(d.pile)
}
