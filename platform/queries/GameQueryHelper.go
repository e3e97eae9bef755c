package queries

import (
	"time"

	"github.com/DedS3t/monopoly-server/app/models"
)

// ResultFromSnapshot builds the history row for a finished game.
func ResultFromSnapshot(snap models.Snapshot, finishedAt time.Time) models.GameResult {
	result := models.GameResult{
		Id:           snap.RoomId,
		WinnerId:     snap.WinnerId,
		WinCondition: string(snap.Settings.WinCondition),
		Players:      len(snap.Players),
		Turns:        snap.Turn.Number,
		FinishedAt:   finishedAt,
	}
	for _, p := range snap.Players {
		if p.Id == snap.WinnerId {
			result.WinnerName = p.Name
		}
	}
	return result
}

// ClampLimit keeps a requested page size between 1 and max, using def when unset.
func ClampLimit(requested, def, max int) int {
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}
