package domain

import "time"

// SessionState is the per-performer live session singleton. It is created
// lazily on the first go-live and persists across sessions.
type SessionState struct {
	PerformerID    string     `json:"performer_id"`
	IsLive         bool       `json:"is_live"`
	SessionEndTime *time.Time `json:"session_end_time"`
	RequestCap     int        `json:"request_cap"` // 0 = unlimited
	ActiveTags     []string   `json:"active_tags"` // empty = all songs visible
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TimeLeft is always derived from the stored end time, never kept as its own
// counter, so a late tick cannot drift.
func (s *SessionState) TimeLeft(now time.Time) time.Duration {
	if !s.IsLive || s.SessionEndTime == nil {
		return 0
	}
	left := s.SessionEndTime.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

func (s *SessionState) Expired(now time.Time) bool {
	return s.IsLive && s.SessionEndTime != nil && !now.Before(*s.SessionEndTime)
}

type GoLiveInput struct {
	RequestCap int
	ActiveTags []string
	Duration   time.Duration // 0 = default session length
}
