package domain

// PublicPage is everything the audience page needs in one read: profile,
// requestable songs, live state and the offline gig calendar.
type PublicPage struct {
	Performer         *Performer    `json:"performer"`
	Songs             []*Song       `json:"songs"`
	PlayedSongIDs     []string      `json:"played_song_ids"`
	Session           *SessionState `json:"session"`
	RemainingCapacity int           `json:"remaining_capacity"` // UnlimitedCapacity when uncapped
	UpcomingGigs      []*Gig        `json:"upcoming_gigs"`
}
