package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/service/ports"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type PerformerService struct {
	performers ports.PerformerRepo
	songs      ports.SongRepo
	sessions   ports.SessionRepo
	requests   ports.RequestRepo
	gigs       ports.GigRepo
	baseURL    string // public site base, e.g. https://yoursongrequest.com
}

func NewPerformerService(
	performers ports.PerformerRepo,
	songs ports.SongRepo,
	sessions ports.SessionRepo,
	requests ports.RequestRepo,
	gigs ports.GigRepo,
	baseURL string,
) *PerformerService {
	return &PerformerService{
		performers: performers,
		songs:      songs,
		sessions:   sessions,
		requests:   requests,
		gigs:       gigs,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *PerformerService) Create(ctx context.Context, input domain.CreatePerformerInput) (*domain.Performer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	performer := &domain.Performer{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(input.Name),
		Bio:            input.Bio,
		PictureURL:     input.PictureURL,
		TelegramChatID: input.TelegramChatID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.performers.Create(ctx, performer); err != nil {
		return nil, fmt.Errorf("create performer: %w", err)
	}

	return performer, nil
}

func (s *PerformerService) GetByID(ctx context.Context, id string) (*domain.Performer, error) {
	return s.performers.GetByID(ctx, id)
}

func (s *PerformerService) UpdateProfile(ctx context.Context, id string, input domain.UpdateProfileInput) (*domain.Performer, error) {
	performer, err := s.performers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get performer: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
		}
		performer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Bio != nil {
		performer.Bio = *input.Bio
	}
	if input.PictureURL != nil {
		performer.PictureURL = *input.PictureURL
	}
	if input.Instagram != nil {
		performer.Instagram = *input.Instagram
	}
	if input.Facebook != nil {
		performer.Facebook = *input.Facebook
	}
	if input.Website != nil {
		performer.Website = *input.Website
	}
	performer.UpdatedAt = time.Now().UTC()

	if err := s.performers.Update(ctx, performer); err != nil {
		return nil, fmt.Errorf("update performer: %w", err)
	}

	return performer, nil
}

// SetSlug claims the performer's permanent public URL. The slug is set-once:
// after the first successful claim every further change is rejected.
func (s *PerformerService) SetSlug(ctx context.Context, performerID, slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, digits and hyphens", domain.ErrValidation)
	}

	if err := s.performers.SetSlug(ctx, performerID, slug); err != nil {
		return fmt.Errorf("set slug: %w", err)
	}

	return nil
}

func (s *PerformerService) GetBySlug(ctx context.Context, slug string) (*domain.Performer, error) {
	return s.performers.GetBySlug(ctx, slug)
}

// PublicPage bundles everything the audience page renders for one slug. Songs
// are filtered by the live session's active tags; while offline the full
// catalog and the upcoming gigs are shown instead.
func (s *PerformerService) PublicPage(ctx context.Context, slug string) (*domain.PublicPage, error) {
	performer, err := s.performers.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get performer: %w", err)
	}

	songs, err := s.songs.ListByPerformer(ctx, performer.ID)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	state, err := s.sessions.Get(ctx, performer.ID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	page := &domain.PublicPage{
		Performer:         performer,
		Songs:             songs,
		Session:           state,
		RemainingCapacity: domain.UnlimitedCapacity,
	}

	if state.IsLive {
		page.Songs = VisibleSongs(songs, state.ActiveTags)

		requests, err := s.requests.ListByPerformer(ctx, performer.ID)
		if err != nil {
			return nil, fmt.Errorf("list requests: %w", err)
		}
		view := ProjectQueue(requests, state.RequestCap)
		page.RemainingCapacity = view.RemainingCapacity
		for _, g := range view.Played {
			page.PlayedSongIDs = append(page.PlayedSongIDs, g.SongID)
		}
	} else {
		gigs, err := s.gigs.ListByPerformer(ctx, performer.ID)
		if err != nil {
			return nil, fmt.Errorf("list gigs: %w", err)
		}
		page.UpcomingGigs = upcomingGigs(gigs, time.Now().UTC())
	}

	return page, nil
}

// PageQR renders a PNG QR code pointing at the performer's public page.
func (s *PerformerService) PageQR(ctx context.Context, slug string) ([]byte, error) {
	performer, err := s.performers.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get performer: %w", err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, performer.Slug)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return png, nil
}
