package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hobbyhall/storefront/internal/db"
	"github.com/hobbyhall/storefront/internal/store"
	"github.com/hobbyhall/storefront/internal/vision"
)

// stubVision is a minimal vision.Analyzer for tests.
type stubVision struct {
	suggestion *vision.Suggestion
	err        error
}

func (s *stubVision) Analyze(_ context.Context, _ io.Reader, _ string) (*vision.Suggestion, error) {
	return s.suggestion, s.err
}

// stubImageStore is a minimal in-memory imagestore.ImageStore for tests.
type stubImageStore struct {
	saved   map[string][]byte
	saveErr error
	counter int
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{saved: make(map[string][]byte)}
}

func (s *stubImageStore) Save(_ context.Context, prefix, _ string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	s.counter++
	key := prefix + "/image" + string(rune('0'+s.counter)) + ".jpg"
	s.saved[key] = data
	return key, nil
}

func (s *stubImageStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := s.saved[key]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

func (s *stubImageStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newCatalogService(t *testing.T, d *sql.DB, analyzer vision.Analyzer) (*CatalogService, *stubImageStore) {
	t.Helper()
	images := newStubImageStore()
	return NewCatalogService(store.NewProductStore(d), images, analyzer, slog.Default()), images
}
