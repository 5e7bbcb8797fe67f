package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/middleware"
)

// recordingStorage is an in-memory fiber.Storage that remembers the expiry of every write.
type recordingStorage struct {
	mu   sync.Mutex
	data map[string][]byte
	exps []time.Duration
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{data: make(map[string][]byte)}
}

func (s *recordingStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *recordingStorage) Set(key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), val...)
	s.exps = append(s.exps, exp)
	return nil
}

func (s *recordingStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *recordingStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	return nil
}

func (s *recordingStorage) Close() error { return nil }

func (s *recordingStorage) expirations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.exps...)
}

func TestCartSession_RenewsExpiryOnEveryRequest(t *testing.T) {
	ttl := 30 * time.Minute
	storage := newRecordingStorage()
	store := session.New(session.Config{
		Storage:    storage,
		Expiration: ttl,
		KeyLookup:  "cookie:" + middleware.SessionCookie,
	})

	app := fiber.New()
	app.Use(middleware.CartSession(store, zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.SessionID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	first, _ := io.ReadAll(resp.Body)
	require.NotEmpty(t, first)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "session cookie not set")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		resp, err = app.Test(req)
		require.NoError(t, err)
		again, _ := io.ReadAll(resp.Body)
		assert.Equal(t, string(first), string(again))
	}

	assert.Equal(t, []time.Duration{ttl, ttl, ttl}, storage.expirations())
}

func TestNewSessionStore_UsesCartCookie(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CartSession(middleware.NewSessionStore(time.Hour, false), zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	var found bool
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			found = true
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, found)
}
