package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/service/ports"
)

type QueueService struct {
	requests ports.RequestRepo
	sessions ports.SessionRepo
}

func NewQueueService(requests ports.RequestRepo, sessions ports.SessionRepo) *QueueService {
	return &QueueService{
		requests: requests,
		sessions: sessions,
	}
}

func (s *QueueService) Queue(ctx context.Context, performerID string) (*domain.QueueView, error) {
	requests, err := s.requests.ListByPerformer(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	state, err := s.sessions.Get(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return ProjectQueue(requests, state.RequestCap), nil
}

// ProjectQueue derives the performer-facing queue from the raw request
// ledger. It is a pure function: the view is recomputed from scratch on
// every ledger or session change and never stored.
func ProjectQueue(requests []*domain.Request, cap int) *domain.QueueView {
	sorted := make([]*domain.Request, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	view := &domain.QueueView{
		Pending:    []*domain.RequestGroup{},
		Played:     []*domain.RequestGroup{},
		Tips:       []*domain.Request{},
		RequestCap: cap,
	}

	pending := map[string]*domain.RequestGroup{}
	played := map[string]*domain.RequestGroup{}

	for _, r := range sorted {
		if r.IsTipOnly {
			view.Tips = append(view.Tips, r)
			continue
		}
		if r.SongID == nil {
			continue
		}

		groups := pending
		if r.Status == domain.RequestStatusPlayed {
			groups = played
		}

		g, ok := groups[*r.SongID]
		if !ok {
			g = &domain.RequestGroup{
				SongID:     *r.SongID,
				SongTitle:  r.SongTitle,
				EarliestAt: r.CreatedAt,
			}
			groups[*r.SongID] = g
		}
		g.Requesters = append(g.Requesters, r.RequesterName)
		g.RequestIDs = append(g.RequestIDs, r.ID)
		if r.Note != "" {
			g.Notes = append(g.Notes, r.Note)
		}
		g.TotalPaid = g.TotalPaid.Add(r.AmountPaid)
		g.TotalTip = g.TotalTip.Add(r.Tip)
		g.LatestAt = r.CreatedAt
	}

	for _, g := range pending {
		view.Pending = append(view.Pending, g)
	}
	// First-requested-first-shown; later requests joining a group do not
	// move it.
	sort.SliceStable(view.Pending, func(i, j int) bool {
		return view.Pending[i].EarliestAt.Before(view.Pending[j].EarliestAt)
	})

	for _, g := range played {
		view.Played = append(view.Played, g)
	}
	sort.SliceStable(view.Played, func(i, j int) bool {
		return view.Played[i].LatestAt.After(view.Played[j].LatestAt)
	})

	// Tips newest first.
	for i, j := 0, len(view.Tips)-1; i < j; i, j = i+1, j-1 {
		view.Tips[i], view.Tips[j] = view.Tips[j], view.Tips[i]
	}

	if cap > 0 {
		view.RemainingCapacity = cap - len(view.Pending)
		if view.RemainingCapacity < 0 {
			view.RemainingCapacity = 0
		}
	} else {
		view.RemainingCapacity = domain.UnlimitedCapacity
	}

	return view
}
