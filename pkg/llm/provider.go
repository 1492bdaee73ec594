package llm

import (
	"context"
	"io"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions resolves functional options against provider defaults.
func ApplyOptions(defaults Options, opts ...Option) *Options {
	options := defaults
	for _, opt := range opts {
		opt(&options)
	}
	return &options
}

// Stream is an open completion stream. Recv returns the next text delta,
// io.EOF when the provider is done. Close releases the provider-side stream
// and must be safe to call after Recv returned an error.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Name identifies the backend ("gemini", "groq") for stream tagging
	Name() string

	// Generate sends a system instruction plus chat history and returns the
	// full response text
	Generate(ctx context.Context, system string, history []Message, options ...Option) (string, error)

	// OpenStream starts a streaming completion. An error here means the
	// stream never produced output; errors after the first Recv are
	// mid-stream failures.
	OpenStream(ctx context.Context, system string, history []Message, options ...Option) (Stream, error)
}

// Drain reads a stream to completion, concatenating deltas. Used by tests
// and non-streaming callers.
func Drain(s Stream) (string, error) {
	defer s.Close()
	var out string
	for {
		delta, err := s.Recv()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out += delta
	}
}
