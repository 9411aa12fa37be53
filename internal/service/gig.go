package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/service/ports"
)

type GigService struct {
	gigs       ports.GigRepo
	performers ports.PerformerRepo
}

func NewGigService(gigs ports.GigRepo, performers ports.PerformerRepo) *GigService {
	return &GigService{
		gigs:       gigs,
		performers: performers,
	}
}

func (s *GigService) Create(ctx context.Context, performerID string, input domain.CreateGigInput) (*domain.Gig, error) {
	if _, err := s.performers.GetByID(ctx, performerID); err != nil {
		return nil, fmt.Errorf("check performer: %w", err)
	}
	if strings.TrimSpace(input.Venue) == "" {
		return nil, fmt.Errorf("%w: venue is required", domain.ErrValidation)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	gig := &domain.Gig{
		ID:          uuid.New().String(),
		PerformerID: performerID,
		Date:        input.Date,
		StartTime:   input.StartTime,
		Venue:       strings.TrimSpace(input.Venue),
		Address:     strings.TrimSpace(input.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.gigs.Create(ctx, gig); err != nil {
		return nil, fmt.Errorf("create gig: %w", err)
	}

	return gig, nil
}

func (s *GigService) Update(ctx context.Context, performerID, gigID string, input domain.UpdateGigInput) (*domain.Gig, error) {
	gig, err := s.ownedGig(ctx, performerID, gigID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		gig.Date = *input.Date
	}
	if input.StartTime != nil {
		gig.StartTime = *input.StartTime
	}
	if input.Venue != nil {
		if strings.TrimSpace(*input.Venue) == "" {
			return nil, fmt.Errorf("%w: venue is required", domain.ErrValidation)
		}
		gig.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.Address != nil {
		gig.Address = strings.TrimSpace(*input.Address)
	}
	gig.UpdatedAt = time.Now().UTC()

	if err := s.gigs.Update(ctx, gig); err != nil {
		return nil, fmt.Errorf("update gig: %w", err)
	}

	return gig, nil
}

func (s *GigService) Delete(ctx context.Context, performerID, gigID string) error {
	if _, err := s.ownedGig(ctx, performerID, gigID); err != nil {
		return err
	}
	return s.gigs.Delete(ctx, performerID, gigID)
}

func (s *GigService) List(ctx context.Context, performerID string) ([]*domain.Gig, error) {
	return s.gigs.ListByPerformer(ctx, performerID)
}

func (s *GigService) Upcoming(ctx context.Context, performerID string) ([]*domain.Gig, error) {
	gigs, err := s.gigs.ListByPerformer(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("list gigs: %w", err)
	}
	return upcomingGigs(gigs, time.Now().UTC()), nil
}

func (s *GigService) ownedGig(ctx context.Context, performerID, gigID string) (*domain.Gig, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		return nil, fmt.Errorf("get gig: %w", err)
	}
	if gig.PerformerID != performerID {
		return nil, domain.ErrGigNotFound
	}
	return gig, nil
}

// upcomingGigs keeps gigs from today onward, soonest first.
func upcomingGigs(gigs []*domain.Gig, now time.Time) []*domain.Gig {
	today := now.Truncate(24 * time.Hour)
	var upcoming []*domain.Gig
	for _, g := range gigs {
		if !g.Date.Before(today) {
			upcoming = append(upcoming, g)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})
	return upcoming
}
