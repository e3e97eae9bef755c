package engine

import (
	"time"

	"github.com/DedS3t/monopoly-server/app/models"
)

const maxLogEntries = 200

type eventLog struct {
	entries []models.LogEntry
	seq     int
}

func (l *eventLog) add(at time.Time, msg string) models.LogEntry {
	l.seq++
	e := models.LogEntry{Seq: l.seq, At: at, Message: msg}
	l.entries = append(l.entries, e)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
	return e
}

func (l *eventLog) all() []models.LogEntry {
	out := make([]models.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// since returns the retained entries with a sequence number above seq.
func (l *eventLog) since(seq int) []models.LogEntry {
	for i, e := range l.entries {
		if e.Seq > seq {
			out := make([]models.LogEntry, len(l.entries)-i)
			copy(out, l.entries[i:])
			return out
		}
	}
	return nil
}

func (l *eventLog) lastSeq() int {
	return l.seq
}
