package engine

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/stretchr/testify/require"
)

// scriptedRand hands out queued die faces and never reorders cards.
type scriptedRand struct {
	faces []int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.faces) == 0 {
		panic("scriptedRand: no die faces left")
	}
	v := r.faces[0]
	r.faces = r.faces[1:]
	return v - 1
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {}

func (r *scriptedRand) queue(faces ...int) {
	r.faces = append(r.faces, faces...)
}

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testBoard() models.Board {
	return models.Board{Name: "test", Tiles: []models.TileTemplate{
		{Id: "t0", Name: "Start", Kind: models.TileStart},
		{Id: "t1", Name: "Old Road", Kind: models.TileProperty, Price: 60, Rent: 4, Group: "brown"},
		{Id: "t2", Name: "Mill Lane", Kind: models.TileProperty, Price: 100, Rent: 6, Group: "brown"},
		{Id: "t3", Name: "Chance", Kind: models.TileEvent},
		{Id: "t4", Name: "Income Tax", Kind: models.TileTax, Amount: 100},
		{Id: "t5", Name: "Jail", Kind: models.TileJail},
		{Id: "t6", Name: "Harbor", Kind: models.TileProperty, Price: 200, Rent: 16, Group: "blue"},
		{Id: "t7", Name: "Parking", Kind: models.TileFree},
		{Id: "t8", Name: "Bay", Kind: models.TileProperty, Price: 300, Rent: 26, Group: "blue"},
		{Id: "t9", Name: "Go To Jail", Kind: models.TileGoToJail},
		{Id: "t10", Name: "Chance", Kind: models.TileEvent},
		{Id: "t11", Name: "Summit", Kind: models.TileProperty, Price: 400, Rent: 50, Group: "green"},
	}}
}

func testCards() []models.Card {
	return []models.Card{
		{Id: "bonus", Text: "Bank error in your favor", Effects: []models.Effect{{Kind: models.EffectMoney, Amount: 100}}},
	}
}

func sequentialIds() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

type fixture struct {
	g     *Game
	rng   *scriptedRand
	host  string
	guest string
	third string
}

// newFixture builds a started game on the test board. names beyond "Alice" and
// "Bob" add more seats.
func newFixture(t *testing.T, settings models.Settings, cards []models.Card, extra ...string) *fixture {
	t.Helper()
	rng := &scriptedRand{}
	if cards == nil {
		cards = testCards()
	}
	g, err := New("room1", "Alice", testBoard(), cards, settings,
		WithRand(rng),
		WithClock(func() time.Time { return testEpoch }),
		WithIdGenerator(sequentialIds()),
	)
	require.NoError(t, err)

	bob, err := g.AddPlayer("Bob")
	require.NoError(t, err)
	f := &fixture{g: g, rng: rng, host: g.HostId(), guest: bob.Id}
	for _, name := range extra {
		p, err := g.AddPlayer(name)
		require.NoError(t, err)
		if f.third == "" {
			f.third = p.Id
		}
	}
	require.NoError(t, g.Start(f.host))
	return f
}

func newDefaultFixture(t *testing.T, extra ...string) *fixture {
	return newFixture(t, models.DefaultSettings(), nil, extra...)
}

func (f *fixture) p(id string) *models.Player {
	return f.g.player(id)
}

func (f *fixture) own(tileId, playerId string, level int) {
	t := f.g.tileById(tileId)
	t.OwnerId = playerId
	t.Level = level
}

func (f *fixture) roll(t *testing.T, playerId string, d1, d2 int) models.DiceRoll {
	t.Helper()
	f.rng.queue(d1, d2)
	roll, err := f.g.RollDice(playerId)
	require.NoError(t, err)
	return roll
}

func (f *fixture) logged(substr string) bool {
	for _, e := range f.g.Log() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
