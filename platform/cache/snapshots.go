package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/gomodule/redigo/redis"
)

// ConnSource hands out connections. *redis.Pool satisfies it.
type ConnSource interface {
	Get() redis.Conn
}

// SnapshotStore keeps the latest full state of every room so it can be served
// without touching the live game.
type SnapshotStore struct {
	conns ConnSource
	ttl   time.Duration
}

func NewSnapshotStore(conns ConnSource, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{conns: conns, ttl: ttl}
}

func snapshotKey(roomId string) string {
	return fmt.Sprintf("%s.state", roomId)
}

func (s *SnapshotStore) Save(snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	conn := s.conns.Get()
	defer conn.Close()
	return Set(snapshotKey(snap.RoomId), data, s.ttl, conn)
}

func (s *SnapshotStore) Load(roomId string) (models.Snapshot, error) {
	conn := s.conns.Get()
	defer conn.Close()

	data, err := Get(snapshotKey(roomId), conn)
	if err != nil {
		return models.Snapshot{}, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", roomId, err)
	}
	return snap, nil
}

func (s *SnapshotStore) Delete(roomId string) error {
	conn := s.conns.Get()
	defer conn.Close()
	return Del(snapshotKey(roomId), conn)
}
