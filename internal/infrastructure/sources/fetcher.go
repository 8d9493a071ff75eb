// Package sources contains the retrieval clients for the public metabolic
// databases.  Each client implements the build.Source interface: it exposes
// metabolite and reaction record iterators that the build service drains.
// Raw HTTP payloads go through a shared caching fetcher so repeated builds
// re-download as little as possible.
package sources

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mmundy42/cobrababel/internal/infrastructure/cache"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Fetcher performs cached HTTP GETs.  A cache failure is logged and treated
// as a miss; only transport and HTTP-status failures surface as errors.
type Fetcher struct {
	client *http.Client
	cache  cache.Cache
	logger logging.Logger
}

// NewFetcher builds a Fetcher.  A nil cache disables caching; a nil logger
// discards logs.
func NewFetcher(timeout time.Duration, c cache.Cache, logger logging.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNop()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		cache:  c,
		logger: logger,
	}
}

// Get returns the response body for url, from cache when possible.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if body, ok, err := f.cache.Get(ctx, url); err != nil {
		f.logger.Warn("cache read failed", logging.String("url", url), logging.Err(err))
	} else if ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceBadQuery, "building request for "+url)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "fetching "+url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.New(errors.ErrCodeSourceRateLimited, "rate limited").WithDetail("url=" + url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeSourceUnavailable, "unexpected status "+resp.Status).
			WithDetail("url=" + url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "reading response from "+url)
	}

	if err := f.cache.Set(ctx, url, body, 0); err != nil {
		f.logger.Warn("cache write failed", logging.String("url", url), logging.Err(err))
	}
	return body, nil
}
