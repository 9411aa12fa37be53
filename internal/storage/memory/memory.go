// Package memory implements the repository ports on plain maps behind one
// mutex. It backs the unit tests and local development runs; the serialized
// access gives the same capacity guarantee the postgres repositories get from
// their row locks.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type Store struct {
	mu           sync.Mutex
	performers   map[string]*domain.Performer
	songs        map[string]*domain.Song
	sessions     map[string]*domain.SessionState
	requests     map[string]*domain.Request
	transactions map[string]*domain.Transaction
	gigs         map[string]*domain.Gig
}

func NewStore() *Store {
	return &Store{
		performers:   map[string]*domain.Performer{},
		songs:        map[string]*domain.Song{},
		sessions:     map[string]*domain.SessionState{},
		requests:     map[string]*domain.Request{},
		transactions: map[string]*domain.Transaction{},
		gigs:         map[string]*domain.Gig{},
	}
}

func (s *Store) Performers() *PerformerStore     { return &PerformerStore{s} }
func (s *Store) Songs() *SongStore               { return &SongStore{s} }
func (s *Store) Sessions() *SessionStore         { return &SessionStore{s} }
func (s *Store) Requests() *RequestStore         { return &RequestStore{s} }
func (s *Store) Transactions() *TransactionStore { return &TransactionStore{s} }
func (s *Store) Gigs() *GigStore                 { return &GigStore{s} }

// Performers

type PerformerStore struct{ s *Store }

func (p *PerformerStore) Create(ctx context.Context, performer *domain.Performer) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	cp := *performer
	p.s.performers[performer.ID] = &cp
	return nil
}

func (p *PerformerStore) GetByID(ctx context.Context, id string) (*domain.Performer, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	performer, ok := p.s.performers[id]
	if !ok {
		return nil, domain.ErrPerformerNotFound
	}
	cp := *performer
	return &cp, nil
}

func (p *PerformerStore) GetBySlug(ctx context.Context, slug string) (*domain.Performer, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, performer := range p.s.performers {
		if performer.Slug == slug {
			cp := *performer
			return &cp, nil
		}
	}
	return nil, domain.ErrPerformerNotFound
}

func (p *PerformerStore) Update(ctx context.Context, performer *domain.Performer) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	stored, ok := p.s.performers[performer.ID]
	if !ok {
		return domain.ErrPerformerNotFound
	}
	slug := stored.Slug
	cp := *performer
	cp.Slug = slug // slug changes only through SetSlug
	p.s.performers[performer.ID] = &cp
	return nil
}

func (p *PerformerStore) SetSlug(ctx context.Context, performerID, slug string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	performer, ok := p.s.performers[performerID]
	if !ok {
		return domain.ErrPerformerNotFound
	}
	if performer.Slug != "" {
		if performer.Slug == slug {
			return nil
		}
		return domain.ErrSlugImmutable
	}
	for _, other := range p.s.performers {
		if other.Slug == slug {
			return domain.ErrSlugTaken
		}
	}
	performer.Slug = slug
	return nil
}

// Songs

type SongStore struct{ s *Store }

func (st *SongStore) Create(ctx context.Context, song *domain.Song) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cp := *song
	st.s.songs[song.ID] = &cp
	return nil
}

func (st *SongStore) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	song, ok := st.s.songs[id]
	if !ok {
		return nil, domain.ErrSongNotFound
	}
	cp := *song
	return &cp, nil
}

func (st *SongStore) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Song, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var songs []*domain.Song
	for _, song := range st.s.songs {
		if song.PerformerID == performerID {
			cp := *song
			songs = append(songs, &cp)
		}
	}
	sort.SliceStable(songs, func(i, j int) bool {
		return songs[i].Position < songs[j].Position
	})
	return songs, nil
}

func (st *SongStore) Update(ctx context.Context, song *domain.Song) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.songs[song.ID]; !ok {
		return domain.ErrSongNotFound
	}
	cp := *song
	st.s.songs[song.ID] = &cp
	return nil
}

func (st *SongStore) Delete(ctx context.Context, performerID, songID string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	song, ok := st.s.songs[songID]
	if !ok || song.PerformerID != performerID {
		return domain.ErrSongNotFound
	}
	delete(st.s.songs, songID)
	return nil
}

func (st *SongStore) Reorder(ctx context.Context, performerID string, orderedIDs []string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for i, id := range orderedIDs {
		song, ok := st.s.songs[id]
		if !ok || song.PerformerID != performerID {
			return domain.ErrSongNotFound
		}
		song.Position = i + 1
	}
	return nil
}

// Session state

type SessionStore struct{ s *Store }

func (st *SessionStore) Get(ctx context.Context, performerID string) (*domain.SessionState, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	state, ok := st.s.sessions[performerID]
	if !ok {
		state = &domain.SessionState{PerformerID: performerID}
		st.s.sessions[performerID] = state
	}
	cp := *state
	return &cp, nil
}

func (st *SessionStore) Save(ctx context.Context, state *domain.SessionState) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cp := *state
	st.s.sessions[state.PerformerID] = &cp
	return nil
}

func (st *SessionStore) ListLive(ctx context.Context) ([]*domain.SessionState, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var live []*domain.SessionState
	for _, state := range st.s.sessions {
		if state.IsLive {
			cp := *state
			live = append(live, &cp)
		}
	}
	return live, nil
}

// Requests

type RequestStore struct{ s *Store }

func (st *RequestStore) Submit(ctx context.Context, r *domain.Request, capLimit int) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if capLimit > 0 && !r.IsTipOnly {
		pending := 0
		for _, existing := range st.s.requests {
			if existing.PerformerID == r.PerformerID &&
				existing.Status == domain.RequestStatusPending &&
				!existing.IsTipOnly {
				pending++
			}
		}
		if pending >= capLimit {
			return domain.ErrCapReached
		}
	}
	cp := *r
	st.s.requests[r.ID] = &cp
	return nil
}

func (st *RequestStore) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Request, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var requests []*domain.Request
	for _, r := range st.s.requests {
		if r.PerformerID == performerID {
			cp := *r
			requests = append(requests, &cp)
		}
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
	return requests, nil
}

func (st *RequestStore) MarkPlayed(ctx context.Context, performerID string, ids []string, split func(*domain.Request) []*domain.Transaction) ([]*domain.Request, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var flipped []*domain.Request
	for _, id := range ids {
		r, ok := st.s.requests[id]
		if !ok || r.PerformerID != performerID || r.IsTipOnly {
			continue
		}
		if r.Status != domain.RequestStatusPending {
			continue
		}
		r.Status = domain.RequestStatusPlayed
		for _, t := range split(r) {
			st.s.createTransactionLocked(t)
		}
		cp := *r
		flipped = append(flipped, &cp)
	}
	return flipped, nil
}

func (st *RequestStore) DeletePlayedBySong(ctx context.Context, performerID, songID string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for id, r := range st.s.requests {
		if r.PerformerID == performerID &&
			r.SongID != nil && *r.SongID == songID &&
			r.Status == domain.RequestStatusPlayed {
			delete(st.s.requests, id)
		}
	}
	return nil
}

func (st *RequestStore) DeletePending(ctx context.Context, performerID string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for id, r := range st.s.requests {
		if r.PerformerID == performerID && r.Status == domain.RequestStatusPending && !r.IsTipOnly {
			delete(st.s.requests, id)
		}
	}
	return nil
}

// Transactions

type TransactionStore struct{ s *Store }

func (st *TransactionStore) Create(ctx context.Context, t *domain.Transaction) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.createTransactionLocked(t)
	return nil
}

func (st *TransactionStore) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Transaction, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var transactions []*domain.Transaction
	for _, t := range st.s.transactions {
		if t.PerformerID == performerID {
			cp := *t
			transactions = append(transactions, &cp)
		}
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

// createTransactionLocked drops replays of the same (request_id, type) pair,
// mirroring the unique index in the postgres schema.
func (s *Store) createTransactionLocked(t *domain.Transaction) {
	for _, existing := range s.transactions {
		if existing.RequestID == t.RequestID && existing.Type == t.Type {
			return
		}
	}
	cp := *t
	s.transactions[t.ID] = &cp
}

// Gigs

type GigStore struct{ s *Store }

func (st *GigStore) Create(ctx context.Context, g *domain.Gig) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	cp := *g
	st.s.gigs[g.ID] = &cp
	return nil
}

func (st *GigStore) GetByID(ctx context.Context, id string) (*domain.Gig, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	g, ok := st.s.gigs[id]
	if !ok {
		return nil, domain.ErrGigNotFound
	}
	cp := *g
	return &cp, nil
}

func (st *GigStore) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Gig, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var gigs []*domain.Gig
	for _, g := range st.s.gigs {
		if g.PerformerID == performerID {
			cp := *g
			gigs = append(gigs, &cp)
		}
	}
	sort.SliceStable(gigs, func(i, j int) bool {
		return gigs[i].Date.Before(gigs[j].Date)
	})
	return gigs, nil
}

func (st *GigStore) Update(ctx context.Context, g *domain.Gig) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.gigs[g.ID]; !ok {
		return domain.ErrGigNotFound
	}
	cp := *g
	st.s.gigs[g.ID] = &cp
	return nil
}

func (st *GigStore) Delete(ctx context.Context, performerID, gigID string) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	g, ok := st.s.gigs[gigID]
	if !ok || g.PerformerID != performerID {
		return domain.ErrGigNotFound
	}
	delete(st.s.gigs, gigID)
	return nil
}
