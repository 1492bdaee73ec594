package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoProvider is returned when the failover has nothing to call.
var ErrNoProvider = errors.New("no completion provider configured")

// Failover attempts the primary provider first and falls back on error.
// Fallback only happens before a stream is open: once OpenStream succeeded
// a later failure is surfaced to the caller as a broken stream.
type Failover struct {
	primary      Provider
	secondary    Provider
	fallbackOpts []Option
}

// NewFailover wires the provider pair. fallbackOpts apply only when the
// secondary provider serves the request; the primary always runs with the
// caller's options alone, on its own defaults.
func NewFailover(primary, secondary Provider, fallbackOpts ...Option) *Failover {
	return &Failover{primary: primary, secondary: secondary, fallbackOpts: fallbackOpts}
}

func (f *Failover) secondaryOpts(options []Option) []Option {
	opts := make([]Option, 0, len(options)+len(f.fallbackOpts))
	opts = append(opts, options...)
	return append(opts, f.fallbackOpts...)
}

// Open starts a streaming completion, preferring the primary provider.
// Returns the open stream and the name of the provider that produced it.
func (f *Failover) Open(ctx context.Context, system string, history []Message, options ...Option) (Stream, string, error) {
	if f == nil || (f.primary == nil && f.secondary == nil) {
		return nil, "", ErrNoProvider
	}

	if f.primary == nil {
		stream, err := f.secondary.OpenStream(ctx, system, history, f.secondaryOpts(options)...)
		if err != nil {
			return nil, "", err
		}
		return stream, f.secondary.Name(), nil
	}

	stream, err := f.primary.OpenStream(ctx, system, history, options...)
	if err == nil {
		return stream, f.primary.Name(), nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, "", err
	}
	if f.secondary == nil {
		return nil, "", err
	}

	stream, fallbackErr := f.secondary.OpenStream(ctx, system, history, f.secondaryOpts(options)...)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf("primary provider error: %w; fallback provider error: %v", err, fallbackErr)
	}
	return stream, f.secondary.Name(), nil
}

// Generate runs a non-streaming completion with the same fallback policy.
func (f *Failover) Generate(ctx context.Context, system string, history []Message, options ...Option) (string, error) {
	if f == nil || (f.primary == nil && f.secondary == nil) {
		return "", ErrNoProvider
	}

	if f.primary != nil {
		out, err := f.primary.Generate(ctx, system, history, options...)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || f.secondary == nil {
			return "", err
		}
		out, fallbackErr := f.secondary.Generate(ctx, system, history, f.secondaryOpts(options)...)
		if fallbackErr != nil {
			return "", fmt.Errorf("primary provider error: %w; fallback provider error: %v", err, fallbackErr)
		}
		return out, nil
	}

	return f.secondary.Generate(ctx, system, history, f.secondaryOpts(options)...)
}

// IsRateLimited reports whether an error looks like provider throttling.
// Both backends surface HTTP status text in their errors, so string
// inspection covers Gemini RESOURCE_EXHAUSTED and Groq 429 responses alike.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted")
}
