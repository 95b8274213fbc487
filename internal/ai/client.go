package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	summaryTemperature = 0.3
	summaryMaxTokens   = 4096
	insightTemperature = 0.5
	insightMaxTokens   = 1024
	maxInsights        = 5
)

const insightSystem = `You are a document analysis expert. Extract exactly 5 key insights from the provided document summary. Return ONLY a JSON array of strings, no explanation. Each insight should be 1-2 sentences max. Example: ["Insight 1", "Insight 2", ...]`

type ClientConfig struct {
	Model          string
	Timeout        time.Duration
	InsightTimeout time.Duration
}

// Client fixes a provider, a model and the request deadlines, and caches
// summary completions so identical document+instruction pairs do not pay for a
// second round trip.
type Client struct {
	provider IProvider
	cfg      ClientConfig
	cache    *expirable.LRU[string, string]
}

func NewClient(provider IProvider, cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.InsightTimeout <= 0 {
		cfg.InsightTimeout = 30 * time.Second
	}
	return &Client{
		provider: provider,
		cfg:      cfg,
		cache:    expirable.NewLRU[string, string](1000, nil, 2*time.Hour),
	}
}

// Summarize issues one completion request with the shared system directive and
// the style instruction plus document text as the user message.
func (c *Client) Summarize(ctx context.Context, system, user string) (string, error) {
	key := c.cacheKey(system, user)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	result, err := c.provider.Complete(ctx, CompletionRequest{
		Model:       c.cfg.Model,
		System:      system,
		User:        user,
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", err
	}
	c.cache.Add(key, result)
	return result, nil
}

// ExtractInsights derives a bounded list of short insights from a summary.
// Best-effort: any failure, including an unparseable payload, yields nil and
// never an error.
func (c *Client) ExtractInsights(ctx context.Context, summaryText string) []string {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.InsightTimeout)
	defer cancel()
	raw, err := c.provider.Complete(ctx, CompletionRequest{
		Model:       c.cfg.Model,
		System:      insightSystem,
		User:        "Extract 5 key insights from this summary:\n\n" + summaryText,
		Temperature: insightTemperature,
		MaxTokens:   insightMaxTokens,
	})
	if err != nil {
		logutil.GetLogger(ctx).Warn("insight extraction failed", zap.Error(err))
		return nil
	}
	return parseInsights(raw, maxInsights)
}

func (c *Client) cacheKey(system, user string) string {
	hash := sha256.Sum256([]byte(c.cfg.Model + "\x00" + system + "\x00" + user))
	return hex.EncodeToString(hash[:])
}

// parseInsights strips code-fence wrapping, parses a JSON string array and
// truncates it preserving order. Non-list payloads yield nil.
func parseInsights(raw string, max int) []string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	var items []string
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil
	}
	if len(items) > max {
		items = items[:max]
	}
	return items
}
