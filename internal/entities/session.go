package entities

import "time"

// SessionEntry is one narrative summary. Entries are never edited.
type SessionEntry struct {
	ID         int       `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Summary    string    `json:"summary"`
}

// SessionLog is the append-only history of a campaign
type SessionLog struct {
	NextID  int            `json:"next_id"`
	Entries []SessionEntry `json:"entries"`
}

// Append records summary under the next id and returns the entry
func (l *SessionLog) Append(summary string, at time.Time) SessionEntry {
	if l.NextID < 1 {
		l.NextID = 1
	}
	entry := SessionEntry{ID: l.NextID, RecordedAt: at, Summary: summary}
	l.Entries = append(l.Entries, entry)
	l.NextID++
	return entry
}
