// Package datasf fetches parking datasets from the DataSF Socrata API.
package datasf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sf-parking-zones/internal/config"
	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	apperrors "github.com/sf-parking-zones/internal/pkg/errors"
)

const rppWhere = "rpparea1 IS NOT NULL"

type client struct {
	httpClient *http.Client
	cfg        config.DataSFConfig
	limiter    *rate.Limiter
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// Option настраивает клиент
type Option func(*client)

// WithCache caches raw pages; nil disables caching.
func WithCache(cache repository.CacheRepository, ttl time.Duration) Option {
	return func(c *client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *client) {
		c.httpClient = h
	}
}

// NewClient создает клиент DataSF
func NewClient(cfg config.DataSFConfig, logger *zap.Logger, opts ...Option) repository.ParkingDataSource {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	c := &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchBlockfaces возвращает регуляции по кварталам
func (c *client) FetchBlockfaces(ctx context.Context, rppOnly bool) ([]domain.RawRecord, error) {
	where := ""
	if rppOnly {
		where = rppWhere
	}
	return c.fetchRecords(ctx, c.cfg.BlockfaceDataset, where)
}

// FetchMeters возвращает парковочные счётчики
func (c *client) FetchMeters(ctx context.Context) ([]domain.RawRecord, error) {
	return c.fetchRecords(ctx, c.cfg.MetersDataset, "")
}

// FetchPermitParcels возвращает участки RPP как GeoJSON-фичи
func (c *client) FetchPermitParcels(ctx context.Context) ([]domain.RawFeature, error) {
	var all []domain.RawFeature
	for offset := 0; ; offset += c.cfg.PageSize {
		q := c.pageQuery(offset, "")
		body, err := c.get(ctx, c.cfg.ParcelsDataset, "geojson", q)
		if err != nil {
			return nil, err
		}

		var fc struct {
			Features []domain.RawFeature `json:"features"`
		}
		if err := json.Unmarshal(body, &fc); err != nil {
			return nil, apperrors.ErrFetchFailed.
				WithDetails(map[string]interface{}{"dataset": c.cfg.ParcelsDataset}).
				Wrap(fmt.Errorf("decode geojson page at offset %d: %w", offset, err))
		}
		all = append(all, fc.Features...)

		c.logger.Debug("Fetched parcel page",
			zap.Int("offset", offset),
			zap.Int("count", len(fc.Features)),
			zap.Int("total", len(all)))

		if len(fc.Features) < c.cfg.PageSize {
			break
		}
	}

	c.logger.Info("Fetched permit parcels", zap.Int("features", len(all)))
	return all, nil
}

func (c *client) fetchRecords(ctx context.Context, dataset, where string) ([]domain.RawRecord, error) {
	var all []domain.RawRecord
	for offset := 0; ; offset += c.cfg.PageSize {
		body, err := c.get(ctx, dataset, "json", c.pageQuery(offset, where))
		if err != nil {
			return nil, err
		}

		var page []domain.RawRecord
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&page); err != nil {
			return nil, apperrors.ErrFetchFailed.
				WithDetails(map[string]interface{}{"dataset": dataset}).
				Wrap(fmt.Errorf("decode page at offset %d: %w", offset, err))
		}
		all = append(all, page...)

		c.logger.Debug("Fetched page",
			zap.String("dataset", dataset),
			zap.Int("offset", offset),
			zap.Int("count", len(page)),
			zap.Int("total", len(all)))

		if len(page) < c.cfg.PageSize {
			break
		}
	}

	c.logger.Info("Fetched dataset", zap.String("dataset", dataset), zap.Int("records", len(all)))
	return all, nil
}

func (c *client) pageQuery(offset int, where string) url.Values {
	q := url.Values{}
	q.Set("$limit", strconv.Itoa(c.cfg.PageSize))
	q.Set("$offset", strconv.Itoa(offset))
	q.Set("$order", ":id")
	if where != "" {
		q.Set("$where", where)
	}
	return q
}

// get returns one page, from cache when possible. Transport errors, 429 and
// 5xx are retried with exponential backoff.
func (c *client) get(ctx context.Context, dataset, ext string, q url.Values) ([]byte, error) {
	query := ext + "?" + q.Encode()
	if c.cache != nil {
		if cached, err := c.cache.GetPage(ctx, dataset, query); err == nil && cached != nil {
			c.logger.Debug("Page cache hit", zap.String("dataset", dataset), zap.String("query", query))
			return cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/%s.%s?%s", c.cfg.BaseURL, dataset, ext, q.Encode())

	attempts := c.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.cfg.RetryDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Warn("Request failed, retrying",
				zap.String("dataset", dataset),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", attempts),
				zap.Duration("wait", wait),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retry, err := c.do(ctx, endpoint)
		if err == nil {
			if c.cache != nil {
				if err := c.cache.SetPage(ctx, dataset, query, body, c.cacheTTL); err != nil {
					c.logger.Warn("Failed to cache page", zap.String("dataset", dataset), zap.Error(err))
				}
			}
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	c.logger.Error("DataSF request failed", zap.String("dataset", dataset), zap.Error(lastErr))
	return nil, apperrors.ErrFetchFailed.
		WithDetails(map[string]interface{}{"dataset": dataset}).
		Wrap(lastErr)
}

func (c *client) do(ctx context.Context, endpoint string) ([]byte, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.AppToken != "" {
		req.Header.Set("X-App-Token", c.cfg.AppToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, false, err
		}
		return nil, true, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("datasf API error: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
