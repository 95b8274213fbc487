// Package ai wraps the external chat-completion providers behind a registry,
// mirroring how file stores are wired.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Failure classes for a completion request. All are terminal for the request,
// no automatic retry.
var (
	// ErrNotConfigured means the provider credential is absent; detected
	// before any outbound call.
	ErrNotConfigured = errors.New("ai provider is not configured")
	// ErrUnreachable covers network failures and timeouts.
	ErrUnreachable = errors.New("ai provider unreachable")
	// ErrRejected covers non-success provider statuses.
	ErrRejected = errors.New("ai provider rejected the request")
	// ErrMalformed covers success statuses missing the expected content.
	ErrMalformed = errors.New("unexpected response from ai provider")
)

type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

type IProvider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Factory func(args interface{}) (IProvider, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
