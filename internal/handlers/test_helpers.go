package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userboard/internal/models"
	pkghttp "github.com/BradenHooton/userboard/pkg/http"
	"github.com/stretchr/testify/assert"
)

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockUserStore implements UserStore for testing
type MockUserStore struct {
	FetchAllUsersFunc      func(ctx context.Context) ([]models.UserRecord, error)
	FetchFilteredUsersFunc func(ctx context.Context, filter, search string) ([]models.UserRecord, error)
	ClearCacheFunc         func(ctx context.Context) error
	InvalidateCacheFunc    func()
	StateFunc              func() models.FetchState
}

func (m *MockUserStore) FetchAllUsers(ctx context.Context) ([]models.UserRecord, error) {
	if m.FetchAllUsersFunc == nil {
		return []models.UserRecord{}, nil
	}
	return m.FetchAllUsersFunc(ctx)
}

func (m *MockUserStore) FetchFilteredUsers(ctx context.Context, filter, search string) ([]models.UserRecord, error) {
	if m.FetchFilteredUsersFunc == nil {
		return []models.UserRecord{}, nil
	}
	return m.FetchFilteredUsersFunc(ctx, filter, search)
}

func (m *MockUserStore) ClearCache(ctx context.Context) error {
	if m.ClearCacheFunc == nil {
		return nil
	}
	return m.ClearCacheFunc(ctx)
}

func (m *MockUserStore) InvalidateCache() {
	if m.InvalidateCacheFunc != nil {
		m.InvalidateCacheFunc()
	}
}

func (m *MockUserStore) State() models.FetchState {
	if m.StateFunc == nil {
		return models.FetchState{}
	}
	return m.StateFunc()
}

// MockHealthChecker implements HealthChecker for testing
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}

// NewTestUsers returns n users with ids 1..n, alternating female and male
func NewTestUsers(n int) []models.UserRecord {
	users := make([]models.UserRecord, n)
	for i := range users {
		gender := "female"
		if i%2 == 1 {
			gender = "male"
		}
		age := 20 + i
		users[i] = models.UserRecord{
			ID:        i + 1,
			FirstName: "First" + string(rune('A'+i%26)),
			LastName:  "Last",
			Email:     "user" + string(rune('a'+i%26)) + "@example.com",
			Username:  "user" + string(rune('a'+i%26)),
			Age:       &age,
			Gender:    &gender,
		}
	}
	return users
}
