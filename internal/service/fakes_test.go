package service

import (
	"context"
	"sort"

	"github.com/wbsotracker/wbsotracker/internal/model"
	"github.com/wbsotracker/wbsotracker/internal/repository"
)

// fakeEntryStore is an in-memory EntryStore for unit tests.
type fakeEntryStore struct {
	entries map[string]*model.TimeEntry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[string]*model.TimeEntry)}
}

func (f *fakeEntryStore) CreateEntry(_ context.Context, entry *model.TimeEntry) error {
	for _, existing := range f.entries {
		if existing.UserID == entry.UserID && model.SameDay(existing.Date, entry.Date) {
			return repository.ErrDateTaken
		}
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeEntryStore) GetEntry(_ context.Context, userID, entryID string) (*model.TimeEntry, error) {
	entry, ok := f.entries[entryID]
	if !ok || entry.UserID != userID {
		return nil, repository.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeEntryStore) ListEntries(_ context.Context, userID string) ([]*model.TimeEntry, error) {
	var out []*model.TimeEntry
	for _, entry := range f.entries {
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

func (f *fakeEntryStore) UpdateEntry(_ context.Context, entry *model.TimeEntry) error {
	existing, ok := f.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return repository.ErrEntryNotFound
	}
	for _, other := range f.entries {
		if other.ID != entry.ID && other.UserID == entry.UserID && model.SameDay(other.Date, entry.Date) {
			return repository.ErrDateTaken
		}
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeEntryStore) DeleteEntry(_ context.Context, userID, entryID string) error {
	entry, ok := f.entries[entryID]
	if !ok || entry.UserID != userID {
		return repository.ErrEntryNotFound
	}
	delete(f.entries, entryID)
	return nil
}

// fakeUserStore is an in-memory UserStore for unit tests.
type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}
