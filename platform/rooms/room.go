package rooms

import (
	"context"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-server/app/engine"
	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/platform/logging"
	"github.com/DedS3t/monopoly-server/platform/queries"
)

const recordTimeout = 5 * time.Second

// Update is what a successful action produces for broadcasting.
type Update struct {
	Snapshot models.Snapshot
	Log      []models.LogEntry
}

// Room serializes every action on one game. Snapshot and result writes happen
// after the action lock is released.
type Room struct {
	mu      sync.Mutex
	id      string
	game    *engine.Game
	manager *Manager

	conns      map[string]int
	logSeq     int
	version    int
	recorded   bool
	lastActive time.Time

	storeMu  sync.Mutex
	stored   int
	disposed bool
}

func newRoom(id string, game *engine.Game, m *Manager) *Room {
	return &Room{
		id:         id,
		game:       game,
		manager:    m,
		conns:      make(map[string]int),
		logSeq:     game.LastLogSeq(),
		version:    1,
		lastActive: m.now(),
	}
}

func (r *Room) Id() string { return r.id }

// Do applies fn to the game. A failed action leaves the room untouched and
// yields no update.
func (r *Room) Do(fn func(g *engine.Game) error) (Update, error) {
	r.mu.Lock()
	r.lastActive = r.manager.now()
	if err := fn(r.game); err != nil {
		r.mu.Unlock()
		return Update{}, err
	}
	u, version, finished := r.commit()
	r.mu.Unlock()

	r.persist(version, u.Snapshot)
	if finished {
		r.record(u.Snapshot)
	}
	return u, nil
}

// View runs fn with the game locked, for reads.
func (r *Room) View(fn func(g *engine.Game)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.game)
}

// Attach registers a live connection for playerId and clears its disconnected flag.
func (r *Room) Attach(playerId string) (Update, error) {
	return r.Do(func(g *engine.Game) error {
		if err := g.Reconnect(playerId); err != nil {
			return err
		}
		r.conns[playerId]++
		return nil
	})
}

// Detach drops one connection of playerId. The player is marked disconnected
// once their last connection is gone.
func (r *Room) Detach(playerId string) (Update, error) {
	return r.Do(func(g *engine.Game) error {
		if r.conns[playerId] > 1 {
			r.conns[playerId]--
			return nil
		}
		delete(r.conns, playerId)
		return g.Disconnect(playerId)
	})
}

func (r *Room) ConnectedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

func (r *Room) Summary() models.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := models.RoomSummary{Id: r.id, Status: r.game.Status(), Players: []string{}}
	for _, p := range r.game.Players() {
		if p.Id == r.game.HostId() {
			s.HostName = p.Name
		}
		if r.conns[p.Id] > 0 {
			s.Players = append(s.Players, p.Name)
		}
	}
	s.ConnectedCount = len(s.Players)
	return s
}

func (r *Room) abandonedBefore(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns) == 0 && r.lastActive.Before(cutoff)
}

// commit gathers the outcome of a successful action. Callers hold r.mu.
// finished is true exactly once, for the action that ended the game.
func (r *Room) commit() (u Update, version int, finished bool) {
	snap := r.game.Snapshot()
	u = Update{Snapshot: snap, Log: r.game.LogSince(r.logSeq)}
	r.logSeq = r.game.LastLogSeq()
	r.version++

	if snap.Status == models.StatusFinished && !r.recorded {
		r.recorded = true
		finished = true
	}
	return u, r.version, finished
}

// persist caches snap unless a newer version was already written or the room is gone.
func (r *Room) persist(version int, snap models.Snapshot) {
	if r.manager.snapshots == nil {
		return
	}
	r.storeMu.Lock()
	defer r.storeMu.Unlock()
	if r.disposed || version <= r.stored {
		return
	}
	r.stored = version
	if err := r.manager.snapshots.Save(snap); err != nil {
		logging.Room(r.id).WithError(err).Warn("failed to cache snapshot")
	}
}

// dispose drops the cached snapshot and stops any later write from bringing it back.
func (r *Room) dispose() {
	r.storeMu.Lock()
	defer r.storeMu.Unlock()
	r.disposed = true
	if r.manager.snapshots == nil {
		return
	}
	if err := r.manager.snapshots.Delete(r.id); err != nil {
		logging.Room(r.id).WithError(err).Warn("failed to delete snapshot")
	}
}

func (r *Room) record(snap models.Snapshot) {
	entry := logging.Room(r.id).WithField("winner", snap.WinnerId)
	entry.Info("game finished")
	if r.manager.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := r.manager.results.RecordResult(ctx, queries.ResultFromSnapshot(snap, r.manager.now())); err != nil {
		entry.WithError(err).Warn("failed to record result")
	}
}
