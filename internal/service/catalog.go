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

type CatalogService struct {
	songs      ports.SongRepo
	performers ports.PerformerRepo
}

func NewCatalogService(songs ports.SongRepo, performers ports.PerformerRepo) *CatalogService {
	return &CatalogService{
		songs:      songs,
		performers: performers,
	}
}

func (s *CatalogService) CreateSong(ctx context.Context, performerID string, input domain.CreateSongInput) (*domain.Song, error) {
	if _, err := s.performers.GetByID(ctx, performerID); err != nil {
		return nil, fmt.Errorf("check performer: %w", err)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}

	existing, err := s.songs.ListByPerformer(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	now := time.Now().UTC()
	song := &domain.Song{
		ID:          uuid.New().String(),
		PerformerID: performerID,
		Title:       strings.TrimSpace(input.Title),
		Artist:      strings.TrimSpace(input.Artist),
		Price:       input.Price,
		Position:    len(existing) + 1,
		Tags:        normalizeTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.songs.Create(ctx, song); err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}

	return song, nil
}

func (s *CatalogService) UpdateSong(ctx context.Context, performerID, songID string, input domain.UpdateSongInput) (*domain.Song, error) {
	song, err := s.ownedSong(ctx, performerID, songID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
		}
		song.Title = strings.TrimSpace(*input.Title)
	}
	if input.Artist != nil {
		song.Artist = strings.TrimSpace(*input.Artist)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
		}
		song.Price = *input.Price
	}
	if input.Tags != nil {
		song.Tags = normalizeTags(*input.Tags)
	}
	song.UpdatedAt = time.Now().UTC()

	if err := s.songs.Update(ctx, song); err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}

	return song, nil
}

func (s *CatalogService) DeleteSong(ctx context.Context, performerID, songID string) error {
	if _, err := s.ownedSong(ctx, performerID, songID); err != nil {
		return err
	}
	return s.songs.Delete(ctx, performerID, songID)
}

func (s *CatalogService) List(ctx context.Context, performerID string) ([]*domain.Song, error) {
	return s.songs.ListByPerformer(ctx, performerID)
}

// Reorder rewrites the display positions to match orderedIDs, which must be
// exactly the performer's current song ids.
func (s *CatalogService) Reorder(ctx context.Context, performerID string, orderedIDs []string) error {
	songs, err := s.songs.ListByPerformer(ctx, performerID)
	if err != nil {
		return fmt.Errorf("list songs: %w", err)
	}
	if len(orderedIDs) != len(songs) {
		return fmt.Errorf("%w: order must contain every song exactly once", domain.ErrValidation)
	}
	known := make(map[string]bool, len(songs))
	for _, song := range songs {
		known[song.ID] = true
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] || seen[id] {
			return fmt.Errorf("%w: order must contain every song exactly once", domain.ErrValidation)
		}
		seen[id] = true
	}

	return s.songs.Reorder(ctx, performerID, orderedIDs)
}

// Tags returns the distinct tag set across the performer's catalog, sorted,
// for the dashboard tag picker.
func (s *CatalogService) Tags(ctx context.Context, performerID string) ([]string, error) {
	songs, err := s.songs.ListByPerformer(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	seen := map[string]bool{}
	var tags []string
	for _, song := range songs {
		for _, t := range song.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)

	return tags, nil
}

func (s *CatalogService) ownedSong(ctx context.Context, performerID, songID string) (*domain.Song, error) {
	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	if song.PerformerID != performerID {
		return nil, domain.ErrSongNotFound
	}
	return song, nil
}

// VisibleSongs filters the catalog by the session's active tags. An empty tag
// set shows everything; otherwise a song is visible when it shares a tag with
// the active set. Untagged songs are exempt from filtering and always shown.
// Catalog order is preserved.
func VisibleSongs(catalog []*domain.Song, activeTags []string) []*domain.Song {
	if len(activeTags) == 0 {
		return catalog
	}

	visible := make([]*domain.Song, 0, len(catalog))
	for _, song := range catalog {
		if len(song.Tags) == 0 || song.HasAnyTag(activeTags) {
			visible = append(visible, song)
		}
	}
	return visible
}

func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
