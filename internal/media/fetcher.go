// Package media downloads images referenced by chat turns and encodes them
// as inline data for the AI provider.
package media

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"tutor-backend-go/internal/llm"
	"tutor-backend-go/pkg/cache"
)

// ErrTooLarge is returned when an image exceeds the configured size limit.
var ErrTooLarge = errors.New("media: image exceeds size limit")

const cacheKeyPrefix = "tutor:image:"

// Fetcher downloads images over HTTP, optionally memoizing the encoded result.
type Fetcher struct {
	httpClient *resty.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	maxBytes   int64
	logger     *zap.Logger
}

// FetcherConfig configures a Fetcher. Cache may be nil.
type FetcherConfig struct {
	MaxBytes int64
	Cache    cache.Cache
	CacheTTL time.Duration
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		httpClient: resty.New(),
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		maxBytes:   cfg.MaxBytes,
		logger:     logger,
	}
}

// Fetch returns the image at url as base64 inline data.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*llm.InlineData, error) {
	key := cacheKey(url)
	if data := f.fromCache(ctx, key); data != nil {
		return data, nil
	}

	resp, err := f.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("media: fetch %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("media: fetch %s: status %d", url, resp.StatusCode())
	}

	raw, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read %s: %w", url, err)
	}
	if int64(len(raw)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrTooLarge, url, f.maxBytes)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("media: fetch %s: empty body", url)
	}

	data := &llm.InlineData{
		MimeType: detectMimeType(resp.Header().Get("Content-Type"), raw),
		Data:     base64.StdEncoding.EncodeToString(raw),
	}
	f.toCache(ctx, key, data)
	return data, nil
}

func (f *Fetcher) fromCache(ctx context.Context, key string) *llm.InlineData {
	if f.cache == nil {
		return nil
	}
	val, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn("Image cache read failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var data llm.InlineData
	if err := json.Unmarshal([]byte(val), &data); err != nil || data.Data == "" {
		f.logger.Warn("Dropping corrupt image cache entry", zap.String("key", key), zap.Error(err))
		if delErr := f.cache.Delete(ctx, key); delErr != nil {
			f.logger.Warn("Image cache delete failed", zap.Error(delErr))
		}
		return nil
	}
	return &data
}

func (f *Fetcher) toCache(ctx context.Context, key string, data *llm.InlineData) {
	if f.cache == nil {
		return
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, key, string(encoded), f.cacheTTL); err != nil {
		f.logger.Warn("Image cache write failed", zap.Error(err))
	}
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// detectMimeType trusts an image/* Content-Type and sniffs the bytes otherwise.
func detectMimeType(header string, raw []byte) string {
	if mediaType, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	return mimetype.Detect(raw).String()
}
