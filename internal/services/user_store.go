package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/userboard/internal/models"
	"github.com/BradenHooton/userboard/internal/query"
	"github.com/BradenHooton/userboard/internal/upstream"
	pkglogger "github.com/BradenHooton/userboard/pkg/logger"
	"github.com/google/uuid"
)

// RevalidationTokenKey is the fixed key the upstream ETag is stored under
const RevalidationTokenKey = "usersEtag"

// DefaultCacheTTL is how long fetched data and query results stay fresh
const DefaultCacheTTL = 5 * time.Minute

const tokenWriteTimeout = 5 * time.Second

// TokenStore persists the revalidation token between runs
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// UserFetcher fetches the full remote listing
type UserFetcher interface {
	FetchUsers(ctx context.Context, etag string) (*upstream.Result, error)
}

// UserStoreConfig configures a UserStore. Zero values get defaults.
type UserStoreConfig struct {
	TTL time.Duration
	Now func() time.Time
}

type cacheEntry struct {
	users     []models.UserRecord
	timestamp time.Time
}

// fetchCall is one in-flight request for the full listing. Every caller
// that joins it waits on done; the request itself is cancelled only once
// all of them have given up.
type fetchCall struct {
	done    chan struct{}
	users   []models.UserRecord
	err     error
	waiters int
	cancel  context.CancelFunc
}

// UserStore owns the user list, the fetch status and the query cache.
// At most one request for the full listing is outstanding at any time.
type UserStore struct {
	fetcher UserFetcher
	tokens  TokenStore
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time

	mu          sync.Mutex
	data        []models.UserRecord
	loading     bool
	errMsg      string
	lastFetched time.Time
	cache       map[string]cacheEntry
	inflight    *fetchCall
}

// NewUserStore creates an empty store
func NewUserStore(fetcher UserFetcher, tokens TokenStore, logger *slog.Logger, cfg UserStoreConfig) *UserStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &UserStore{
		fetcher: fetcher,
		tokens:  tokens,
		logger:  logger,
		ttl:     cfg.TTL,
		now:     cfg.Now,
		data:    []models.UserRecord{},
		cache:   make(map[string]cacheEntry),
	}
}

// GenerateCacheKey builds a key that does not depend on parameter order:
// names are sorted and rendered as name:value joined by "|".
func GenerateCacheKey(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + params[name]
	}
	return strings.Join(parts, "|")
}

// FetchAllUsers returns the full user list. A fetch already in flight is
// joined instead of repeated, and data younger than the TTL is returned
// without a network round trip.
//
// If ctx is cancelled the caller stops waiting. When every waiter of a fetch
// has stopped, the fetch is cancelled and its result is discarded without
// touching the store.
func (s *UserStore) FetchAllUsers(ctx context.Context) ([]models.UserRecord, error) {
	s.mu.Lock()
	if call := s.inflight; call != nil {
		call.waiters++
		s.mu.Unlock()
		return s.wait(ctx, call)
	}

	if s.freshLocked(s.lastFetched) {
		data := s.data
		s.mu.Unlock()
		return data, nil
	}

	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	call := &fetchCall{
		done:    make(chan struct{}),
		waiters: 1,
		cancel:  cancel,
	}
	s.inflight = call
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	go s.run(fetchCtx, call)

	return s.wait(ctx, call)
}

func (s *UserStore) wait(ctx context.Context, call *fetchCall) ([]models.UserRecord, error) {
	select {
	case <-call.done:
		return call.users, call.err
	case <-ctx.Done():
		s.mu.Lock()
		call.waiters--
		if call.waiters == 0 {
			// Detach before cancelling so later callers start a fresh fetch
			// instead of joining one that is already abandoned.
			s.releaseLocked(call)
			call.cancel()
		}
		s.mu.Unlock()
		return nil, ctx.Err()
	}
}

// releaseLocked clears the in-flight marker if it still belongs to call
func (s *UserStore) releaseLocked(call *fetchCall) {
	if s.inflight == call {
		s.inflight = nil
		s.loading = false
	}
}

func (s *UserStore) run(ctx context.Context, call *fetchCall) {
	defer call.cancel()

	fetchID := uuid.NewString()
	logger := s.logger.With(slog.String("fetch_id", fetchID))
	started := s.now()

	// Without cached users a 304 is useless, so only revalidate when there
	// is something to keep.
	s.mu.Lock()
	haveData := len(s.data) > 0
	s.mu.Unlock()

	token := ""
	if haveData {
		token = s.loadToken(ctx, logger)
	}
	result, err := s.fetcher.FetchUsers(ctx, token)

	s.mu.Lock()
	newToken := s.commitLocked(ctx, call, result, err, started, logger)
	s.mu.Unlock()

	// The token is written only for a committed response, and the write
	// survives a waiter leaving after the commit.
	if newToken != "" {
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tokenWriteTimeout)
		s.storeToken(storeCtx, newToken, logger)
		cancel()
	}

	s.mu.Lock()
	s.releaseLocked(call)
	s.mu.Unlock()
	close(call.done)
}

// commitLocked applies the outcome of a fetch to the store and returns the
// ETag to persist, if any. A fetch whose context was cancelled changes
// nothing.
func (s *UserStore) commitLocked(ctx context.Context, call *fetchCall, result *upstream.Result, err error, started time.Time, logger *slog.Logger) string {
	if ctx.Err() != nil {
		call.err = ctx.Err()
		logger.Info("user fetch discarded after cancellation")
		return ""
	}

	if err != nil {
		s.failLocked(call, err, logger)
		return ""
	}

	if result.NotModified {
		if len(s.data) == 0 {
			s.failLocked(call, &models.FetchError{
				Kind:       models.FetchErrNotModifiedEmpty,
				StatusCode: result.StatusCode,
				Message:    models.MsgFetchFailed,
				Err:        errors.New("not modified but no cached users"),
			}, logger)
			return ""
		}
		s.lastFetched = s.now()
		s.errMsg = ""
		call.users = s.data
		logger.Info("users not modified", slog.Int("count", len(s.data)))
		return ""
	}

	s.data = result.Users
	s.errMsg = ""
	s.lastFetched = s.now()
	call.users = s.data

	logger.Info("users fetched",
		slog.Int("count", len(result.Users)),
		slog.Duration("duration", s.now().Sub(started)),
	)
	return result.ETag
}

func (s *UserStore) failLocked(call *fetchCall, err error, logger *slog.Logger) {
	s.errMsg = models.ErrorMessage(err, models.MsgFetchFailed)
	call.err = err
	if upstream.IsCanceled(err) {
		logger.Warn("user fetch timed out", slog.Any("error", err))
		return
	}
	logger.Error("user fetch failed", slog.Any("error", err))
}

func (s *UserStore) loadToken(ctx context.Context, logger *slog.Logger) string {
	if s.tokens == nil {
		return ""
	}
	token, err := s.tokens.Get(ctx, RevalidationTokenKey)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logger.Warn("failed to load revalidation token", slog.Any("error", err))
		}
		return ""
	}
	return token
}

func (s *UserStore) storeToken(ctx context.Context, token string, logger *slog.Logger) {
	if s.tokens == nil {
		return
	}
	if err := s.tokens.Set(ctx, RevalidationTokenKey, token); err != nil {
		logger.Warn("failed to store revalidation token", slog.Any("error", err))
		return
	}
	logger.Debug("revalidation token stored", slog.String("etag", pkglogger.MaskToken(token)))
}

// FetchFilteredUsers returns the users matching filter and search, serving
// a fresh cached result for the same parameters when there is one. An empty
// filter or models.FilterAll does not filter.
func (s *UserStore) FetchFilteredUsers(ctx context.Context, filter, search string) ([]models.UserRecord, error) {
	key := GenerateCacheKey(map[string]string{
		"filter": filter,
		"search": search,
	})

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok && s.freshLocked(entry.timestamp) {
		s.mu.Unlock()
		return entry.users, nil
	}
	s.mu.Unlock()

	all, err := s.FetchAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	filtered := query.FilterByGender(all, filter)
	filtered = query.Search(filtered, search)

	s.mu.Lock()
	s.cache[key] = cacheEntry{users: filtered, timestamp: s.now()}
	s.mu.Unlock()

	return filtered, nil
}

// ClearCache drops every cached query, forgets when the list was last
// fetched and deletes the revalidation token.
func (s *UserStore) ClearCache(ctx context.Context) error {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.lastFetched = time.Time{}
	s.mu.Unlock()

	if s.tokens == nil {
		return nil
	}
	return s.tokens.Delete(ctx, RevalidationTokenKey)
}

// InvalidateCache forces the next FetchAllUsers to hit the network. Cached
// query results are kept.
func (s *UserStore) InvalidateCache() {
	s.mu.Lock()
	s.lastFetched = time.Time{}
	s.mu.Unlock()
}

// PruneExpired removes stale query results and returns how many were dropped
func (s *UserStore) PruneExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.cache {
		if !s.freshLocked(entry.timestamp) {
			delete(s.cache, key)
			removed++
		}
	}
	return removed
}

// State returns a snapshot of the store
func (s *UserStore) State() models.FetchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.FetchState{
		Data:          slices.Clip(s.data),
		Loading:       s.loading,
		Error:         s.errMsg,
		LastFetched:   s.lastFetched,
		CachedQueries: len(s.cache),
	}
}

func (s *UserStore) freshLocked(ts time.Time) bool {
	return !ts.IsZero() && s.now().Sub(ts) < s.ttl
}
