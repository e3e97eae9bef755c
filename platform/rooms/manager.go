package rooms

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-server/app/engine"
	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/pkg"
	"github.com/DedS3t/monopoly-server/platform/board"
	log "github.com/sirupsen/logrus"
)

var ErrRoomNotFound = fmt.Errorf("%w: room not found", engine.ErrInvalidTarget)

type SnapshotStore interface {
	Save(snap models.Snapshot) error
	Delete(roomId string) error
}

type ResultRecorder interface {
	RecordResult(ctx context.Context, result models.GameResult) error
}

type Option func(*Manager)

func WithSnapshots(s SnapshotStore) Option {
	return func(m *Manager) { m.snapshots = s }
}

func WithResults(r ResultRecorder) Option {
	return func(m *Manager) { m.results = r }
}

func WithRoomIds(gen func() string) Option {
	return func(m *Manager) { m.newRoomId = gen }
}

func WithGameOptions(opts ...engine.Option) Option {
	return func(m *Manager) { m.gameOpts = append(m.gameOpts, opts...) }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns every live room. Rooms are independent; each serializes its own actions.
type Manager struct {
	sync.RWMutex
	rooms map[string]*Room

	catalog   *board.Catalog
	snapshots SnapshotStore
	results   ResultRecorder
	newRoomId func() string
	gameOpts  []engine.Option
	now       func() time.Time
}

func NewManager(catalog *board.Catalog, opts ...Option) *Manager {
	m := &Manager{
		rooms:     make(map[string]*Room),
		catalog:   catalog,
		newRoomId: func() string { return pkg.RandString(8) },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a room in the lobby with hostName seated as host.
func (m *Manager) Create(hostName string, rawSettings map[string]interface{}) (*Room, models.Player, error) {
	settings := models.NormalizeSettings(rawSettings, m.catalog.Has)

	m.Lock()
	id := m.newRoomId()
	for tries := 0; m.rooms[id] != nil; tries++ {
		if tries > 10 {
			m.Unlock()
			return nil, models.Player{}, fmt.Errorf("could not allocate a room id")
		}
		id = m.newRoomId()
	}

	game, err := engine.New(id, hostName, m.catalog.Board(settings.BoardName), m.catalog.Cards(), settings, m.gameOpts...)
	if err != nil {
		m.Unlock()
		return nil, models.Player{}, err
	}
	r := newRoom(id, game, m)
	m.rooms[id] = r
	host, _ := game.Player(game.HostId())
	snap := game.Snapshot()
	m.Unlock()

	log.WithFields(log.Fields{"room": game.RoomId(), "board": settings.BoardName}).Info("room created")
	r.persist(1, snap)
	return r, host, nil
}

func (m *Manager) Get(id string) (*Room, error) {
	m.RLock()
	defer m.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Dispose tears a room down and forgets its cached state.
func (m *Manager) Dispose(id string) {
	m.Lock()
	r, ok := m.rooms[id]
	delete(m.rooms, id)
	m.Unlock()
	if !ok {
		return
	}

	r.dispose()
	log.WithField("room", id).Info("room disposed")
}

// Sweep disposes rooms nobody has been connected to for longer than idle.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	var stale []string
	for _, r := range m.all() {
		if r.abandonedBefore(cutoff) {
			stale = append(stale, r.id)
		}
	}
	for _, id := range stale {
		m.Dispose(id)
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(idle); n > 0 {
				log.WithField("count", n).Info("swept idle rooms")
			}
		}
	}
}

// List returns the joinable and running rooms that still have someone connected.
func (m *Manager) List() []models.RoomSummary {
	var out []models.RoomSummary
	for _, r := range m.all() {
		s := r.Summary()
		if s.Status == models.StatusFinished || s.ConnectedCount == 0 {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// Boards names every board a room can be created on.
func (m *Manager) Boards() []string {
	return m.catalog.Names()
}

func (m *Manager) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.rooms)
}

func (m *Manager) all() []*Room {
	m.RLock()
	defer m.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}
