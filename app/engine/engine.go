// Package engine owns the authoritative state of one game: players, tiles,
// turn order, dice, purchases, jail and bankruptcy.
//
// A Game is not safe for concurrent use. Callers apply actions one at a time;
// platform/rooms wraps every game in a mutex for that purpose.
package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DedS3t/monopoly-server/app/models"
	uuid "github.com/satori/go.uuid"
)

// Rand is the random source for dice and card shuffles. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type Option func(*Game)

func WithRand(r Rand) Option {
	return func(g *Game) { g.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

func WithIdGenerator(gen func() string) Option {
	return func(g *Game) { g.newId = gen }
}

type Game struct {
	roomId    string
	hostId    string
	status    models.Status
	settings  models.Settings
	players   []*models.Player
	tiles     []models.Tile
	jailIndex int
	turn      models.TurnState
	log       eventLog
	deck      *Deck
	winnerId  string

	rng   Rand
	now   func() time.Time
	newId func() string
}

// New creates a game in the lobby with the host as its first player.
func New(roomId, hostName string, board models.Board, cards []models.Card, settings models.Settings, opts ...Option) (*Game, error) {
	if err := board.Validate(); err != nil {
		return nil, err
	}
	for _, c := range cards {
		if err := c.Validate(board.Size()); err != nil {
			return nil, err
		}
	}

	g := &Game{
		roomId:   roomId,
		status:   models.StatusLobby,
		settings: settings,
		tiles:    board.NewTiles(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		newId:    func() string { return uuid.NewV4().String() },
	}
	for _, opt := range opts {
		opt(g)
	}
	for i, t := range g.tiles {
		if t.Kind == models.TileJail {
			g.jailIndex = i
		}
	}
	g.deck = NewDeck(cards, g.rng)

	host, err := g.AddPlayer(hostName)
	if err != nil {
		return nil, err
	}
	g.hostId = host.Id
	return g, nil
}

func (g *Game) logf(format string, args ...interface{}) {
	g.log.add(g.now(), fmt.Sprintf(format, args...))
}

// AddPlayer seats a new player. Only allowed in the lobby.
func (g *Game) AddPlayer(name string) (models.Player, error) {
	if g.status != models.StatusLobby {
		return models.Player{}, fmt.Errorf("%w: players cannot join once the game has started", ErrAlreadyStarted)
	}
	if len(g.players) >= g.settings.MaxPlayers {
		return models.Player{}, fmt.Errorf("%w: %d of %d seats taken", ErrRoomFull, len(g.players), g.settings.MaxPlayers)
	}

	p := &models.Player{
		Id:    g.newId(),
		Name:  cleanName(name, len(g.players)+1),
		Money: g.settings.StartingCash,
	}
	g.players = append(g.players, p)
	g.logf("%s joined the game", p.Name)
	return *p, nil
}

func cleanName(name string, seat int) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("Player %d", seat)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	return name
}

// Start moves the game from the lobby to active. Host only.
func (g *Game) Start(callerId string) error {
	if g.status != models.StatusLobby {
		return fmt.Errorf("%w: game is %s", ErrAlreadyStarted, g.status)
	}
	if callerId != g.hostId {
		return fmt.Errorf("%w: only the host can start the game", ErrUnauthorized)
	}
	if len(g.players) < 2 {
		return fmt.Errorf("%w: need at least 2, have %d", ErrNotEnoughPlayers, len(g.players))
	}

	first := g.player(g.hostId)
	if first.Bankrupt {
		first = g.nextAlive(0)
	}
	g.status = models.StatusActive
	g.turn = models.TurnState{
		CurrentPlayerId: first.Id,
		StartedAt:       g.now(),
		Number:          1,
	}
	g.logf("The game started with %d players", len(g.players))
	g.logf("It is now %s's turn", first.Name)
	return nil
}

func (g *Game) Reconnect(playerId string) error {
	p := g.player(playerId)
	if p == nil {
		return fmt.Errorf("%w: unknown player %q", ErrInvalidTarget, playerId)
	}
	if p.Disconnected {
		p.Disconnected = false
		g.logf("%s reconnected", p.Name)
	}
	return nil
}

func (g *Game) Disconnect(playerId string) error {
	p := g.player(playerId)
	if p == nil {
		return fmt.Errorf("%w: unknown player %q", ErrInvalidTarget, playerId)
	}
	if !p.Disconnected {
		p.Disconnected = true
		g.logf("%s disconnected", p.Name)
	}
	return nil
}

func (g *Game) RoomId() string { return g.roomId }

func (g *Game) HostId() string { return g.hostId }

func (g *Game) Status() models.Status { return g.status }

func (g *Game) Settings() models.Settings { return g.settings }

func (g *Game) WinnerId() string { return g.winnerId }

func (g *Game) Turn() models.TurnState { return g.turn }

func (g *Game) BoardSize() int { return len(g.tiles) }

func (g *Game) Player(id string) (models.Player, bool) {
	p := g.player(id)
	if p == nil {
		return models.Player{}, false
	}
	return *p, true
}

func (g *Game) Players() []models.Player {
	out := make([]models.Player, len(g.players))
	for i, p := range g.players {
		out[i] = *p
	}
	return out
}

func (g *Game) Tile(id string) (models.Tile, bool) {
	t := g.tileById(id)
	if t == nil {
		return models.Tile{}, false
	}
	return *t, true
}

func (g *Game) TileAt(index int) models.Tile {
	return g.tiles[index]
}

func (g *Game) Tiles() []models.Tile {
	return append([]models.Tile(nil), g.tiles...)
}

func (g *Game) Log() []models.LogEntry { return g.log.all() }

func (g *Game) LogSince(seq int) []models.LogEntry { return g.log.since(seq) }

func (g *Game) LastLogSeq() int { return g.log.lastSeq() }

func (g *Game) Snapshot() models.Snapshot {
	return models.Snapshot{
		RoomId:        g.roomId,
		HostId:        g.hostId,
		Status:        g.status,
		Settings:      g.settings,
		Players:       g.Players(),
		Tiles:         g.Tiles(),
		Turn:          g.turn,
		Log:           g.log.all(),
		DeckRemaining: g.deck.Remaining(),
		WinnerId:      g.winnerId,
	}
}

func (g *Game) player(id string) *models.Player {
	for _, p := range g.players {
		if p.Id == id {
			return p
		}
	}
	return nil
}

func (g *Game) indexOf(id string) int {
	for i, p := range g.players {
		if p.Id == id {
			return i
		}
	}
	return -1
}

func (g *Game) tileById(id string) *models.Tile {
	for i := range g.tiles {
		if g.tiles[i].Id == id {
			return &g.tiles[i]
		}
	}
	return nil
}
