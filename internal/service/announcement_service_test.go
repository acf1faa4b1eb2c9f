package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
)

type stubAnnouncementStore struct {
	records   []models.Announcement
	listCalls int
	deleteErr error
}

func (s *stubAnnouncementStore) Create(_ context.Context, a *models.Announcement) error {
	a.ID = "ann-stub"
	s.records = append(s.records, *a)
	return nil
}

func (s *stubAnnouncementStore) List(_ context.Context) ([]models.Announcement, error) {
	s.listCalls++
	return s.records, nil
}

func (s *stubAnnouncementStore) GetByID(_ context.Context, id string) (*models.Announcement, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubAnnouncementStore) Update(_ context.Context, a *models.Announcement) error {
	for i := range s.records {
		if s.records[i].ID == a.ID {
			s.records[i] = *a
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubAnnouncementStore) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return nil
}

type stubCacheRepo struct {
	store   map[string][]byte
	deleted []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	for key := range s.store {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.store, key)
		}
	}
	return nil
}

func TestAnnouncementListUsesCache(t *testing.T) {
	store := &stubAnnouncementStore{records: []models.Announcement{{ID: "a1", Title: "Sports Day", Content: "Friday"}}}
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewAnnouncementService(store, nil, cache, nil, nil)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.listCalls)
}

func TestAnnouncementCreateInvalidatesCache(t *testing.T) {
	store := &stubAnnouncementStore{}
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	audit := &recordingAudit{}
	svc := NewAnnouncementService(store, audit, cache, nil, nil)

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.AnnouncementRequest{Title: "New", Content: "Body"}, &models.JWTClaims{UserID: "u1"})
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, "announcements:*")
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionContentCreate, audit.logs[0].Action)

	// Cache was emptied, so the next listing goes back to the store.
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
}

func TestAnnouncementCreateValidation(t *testing.T) {
	store := &stubAnnouncementStore{}
	svc := NewAnnouncementService(store, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.AnnouncementRequest{Title: "", Content: "Body"}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.records)
}

func TestAnnouncementDeleteMissingIsNotFound(t *testing.T) {
	store := &stubAnnouncementStore{deleteErr: sql.ErrNoRows}
	svc := NewAnnouncementService(store, nil, nil, nil, nil)

	err := svc.Delete(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAnnouncementUpdateRoundTrip(t *testing.T) {
	store := &stubAnnouncementStore{records: []models.Announcement{{ID: "a1", Title: "Old", Content: "Body"}}}
	svc := NewAnnouncementService(store, nil, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "a1", dto.AnnouncementRequest{Title: "New", Content: "Body", IsPinned: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.True(t, updated.IsPinned)
}
