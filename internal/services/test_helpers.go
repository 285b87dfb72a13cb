package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BradenHooton/userboard/internal/models"
	"github.com/BradenHooton/userboard/internal/upstream"
)

// MockUserFetcher implements UserFetcher for testing
type MockUserFetcher struct {
	FetchUsersFunc func(ctx context.Context, etag string) (*upstream.Result, error)
	calls          atomic.Int32
}

func (m *MockUserFetcher) FetchUsers(ctx context.Context, etag string) (*upstream.Result, error) {
	m.calls.Add(1)
	if m.FetchUsersFunc != nil {
		return m.FetchUsersFunc(ctx, etag)
	}
	return &upstream.Result{Users: []models.UserRecord{}, StatusCode: 200}, nil
}

// Calls returns how many times FetchUsers was invoked
func (m *MockUserFetcher) Calls() int {
	return int(m.calls.Load())
}

// MockTokenStore implements TokenStore for testing
type MockTokenStore struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string) error
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *MockTokenStore) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", models.ErrNotFound
}

func (m *MockTokenStore) Set(ctx context.Context, key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	return nil
}

func (m *MockTokenStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

// FakeClock is a manually advanced clock
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// NewTestUser creates a user with the given fields and derived email/username
func NewTestUser(id int, firstName, lastName, gender string) models.UserRecord {
	u := models.UserRecord{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     firstName + "." + lastName + "@example.com",
		Username:  firstName + lastName,
	}
	if gender != "" {
		u.Gender = &gender
	}
	return u
}
