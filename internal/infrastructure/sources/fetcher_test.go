package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmundy42/cobrababel/internal/infrastructure/cache"
	apperrors "github.com/mmundy42/cobrababel/pkg/errors"
)

func TestFetcher_GetCachesResponses(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, cache.NewMemory(time.Minute), nil)
	ctx := context.Background()

	body, err := f.Get(ctx, srv.URL+"/thing")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))

	body, err = f.Get(ctx, srv.URL+"/thing")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, 1, hits)
}

func TestFetcher_GetStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/limited":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, nil, nil)
	ctx := context.Background()

	_, err := f.Get(ctx, srv.URL+"/limited")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSourceRateLimited))

	_, err = f.Get(ctx, srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSourceUnavailable))
}

func TestFetcher_GetTransportError(t *testing.T) {
	f := NewFetcher(time.Second, nil, nil)
	_, err := f.Get(context.Background(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSourceUnavailable))
}
