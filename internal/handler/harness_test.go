package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wbsotracker/wbsotracker/internal/auth"
	"github.com/wbsotracker/wbsotracker/internal/clock"
	"github.com/wbsotracker/wbsotracker/internal/model"
	"github.com/wbsotracker/wbsotracker/internal/repository"
	"github.com/wbsotracker/wbsotracker/internal/service"
)

// memStore is an in-memory store backing handler tests.
type memStore struct {
	users   map[string]*model.User
	entries map[string]*model.TimeEntry
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*model.User),
		entries: make(map[string]*model.TimeEntry),
	}
}

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *memStore) CreateEntry(_ context.Context, entry *model.TimeEntry) error {
	for _, existing := range m.entries {
		if existing.UserID == entry.UserID && model.SameDay(existing.Date, entry.Date) {
			return repository.ErrDateTaken
		}
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *memStore) GetEntry(_ context.Context, userID, entryID string) (*model.TimeEntry, error) {
	entry, ok := m.entries[entryID]
	if !ok || entry.UserID != userID {
		return nil, repository.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (m *memStore) ListEntries(_ context.Context, userID string) ([]*model.TimeEntry, error) {
	var out []*model.TimeEntry
	for _, entry := range m.entries {
		if entry.UserID == userID {
			copied := *entry
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) UpdateEntry(_ context.Context, entry *model.TimeEntry) error {
	existing, ok := m.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return repository.ErrEntryNotFound
	}
	for _, other := range m.entries {
		if other.ID != entry.ID && other.UserID == entry.UserID && model.SameDay(other.Date, entry.Date) {
			return repository.ErrDateTaken
		}
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *memStore) DeleteEntry(_ context.Context, userID, entryID string) error {
	entry, ok := m.entries[entryID]
	if !ok || entry.UserID != userID {
		return repository.ErrEntryNotFound
	}
	delete(m.entries, entryID)
	return nil
}

// testEnv bundles a router with direct store access for seeding.
type testEnv struct {
	store  *memStore
	router *chi.Mux
	now    time.Time
}

// identityFor injects an authenticated identity, standing in for the auth
// middleware.
func identityFor(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.ContextWithIdentity(r.Context(), &model.Identity{UserID: userID, Email: "dev@example.com"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestEnv(t *testing.T, userID string, now time.Time) *testEnv {
	t.Helper()

	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	entrySvc := service.NewTimeEntryService(store, store, clock.Fixed{Instant: now}, nil)
	entryHandler := NewTimeEntryHandler(entrySvc, logger)

	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)
	accountSvc := service.NewAccountService(store, tokens, clock.Fixed{Instant: now}, nil)
	authHandler := NewAuthHandler(accountSvc, logger)

	r := chi.NewRouter()
	r.Post("/api/v1/auth/register", authHandler.Register)
	r.Post("/api/v1/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(identityFor(userID))
		r.Post("/api/v1/auth/password", authHandler.ChangePassword)
		r.Get("/api/v1/time-entries", entryHandler.List)
		r.Post("/api/v1/time-entries", entryHandler.Create)
		r.Get("/api/v1/time-entries/stats", entryHandler.Stats)
		r.Put("/api/v1/time-entries/{id}", entryHandler.Update)
		r.Delete("/api/v1/time-entries/{id}", entryHandler.Delete)
	})

	return &testEnv{store: store, router: r, now: now}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// seedUser inserts a user directly into the store.
func (env *testEnv) seedUser(t *testing.T, id string, approvedHours float64) {
	t.Helper()
	env.store.users[id] = &model.User{
		ID:            id,
		Email:         "dev@example.com",
		ApprovedHours: approvedHours,
		CreatedAt:     env.now,
		UpdatedAt:     env.now,
	}
}

// seedEntry inserts an entry directly into the store.
func (env *testEnv) seedEntry(t *testing.T, id, userID string, date, createdAt time.Time) {
	t.Helper()
	env.store.entries[id] = &model.TimeEntry{
		ID:                  id,
		UserID:              userID,
		Date:                model.DayOf(date),
		Hours:               4,
		ProjectPhase:        "Development",
		ActivityDescription: "Seeded",
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
}
