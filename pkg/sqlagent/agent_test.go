package sqlagent

import (
	"context"
	"errors"
	"testing"

	"baknusai-be/internal/pkg/logger"
	"baknusai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	name       string
	response   string
	err        error
	calls      int
	lastPrompt string
	lastOpts   *llm.Options
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, _ string, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	f.lastOpts = llm.ApplyOptions(llm.Options{}, options...)
	return f.response, f.err
}

func (f *fakeProvider) OpenStream(context.Context, string, []llm.Message, ...llm.Option) (llm.Stream, error) {
	return nil, errors.New("not implemented")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{
			name:   "plain select passes",
			raw:    "SELECT nama FROM user",
			want:   "SELECT nama FROM user",
			wantOK: true,
		},
		{
			name:   "sql fences are stripped",
			raw:    "```sql\nSELECT nama FROM user\n```",
			want:   "SELECT nama FROM user",
			wantOK: true,
		},
		{
			name: "no sentinel means no intent",
			raw:  "NO",
		},
		{
			name: "lowercase sentinel",
			raw:  "no",
		},
		{
			name: "prose answer is rejected",
			raw:  "Maaf, saya tidak bisa menjawab itu.",
		},
		{
			name: "mutating statement is rejected",
			raw:  "UPDATE user SET nama = 'x'",
		},
		{
			name: "empty output",
			raw:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateQuery_PrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "gemini", response: "SELECT nama FROM user"}
	fallback := &fakeProvider{name: "groq"}
	agent := NewAgent(primary, fallback, logger.NewNopLogger())

	query, ok := agent.GenerateQuery(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "berapa jumlah siswa?"},
	})

	assert.True(t, ok)
	assert.Equal(t, "SELECT nama FROM user", query)
	assert.Equal(t, 0, fallback.calls)
	assert.Contains(t, primary.lastPrompt, "[Histori Obrolan Sebagai Konteks]")
	assert.Contains(t, primary.lastPrompt, "berapa jumlah siswa?")
}

func TestGenerateQuery_FallsBackOnPrimaryError(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("503 overloaded")}
	fallback := &fakeProvider{name: "groq", response: "```sql\nSELECT COUNT(*) FROM user\n```"}
	agent := NewAgent(primary, fallback, logger.NewNopLogger())

	query, ok := agent.GenerateQuery(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "berapa jumlah siswa?"},
	})

	assert.True(t, ok)
	assert.Equal(t, "SELECT COUNT(*) FROM user", query)
	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, fallbackTemperature, fallback.lastOpts.Temperature)
	assert.Equal(t, fallbackMaxTokens, fallback.lastOpts.MaxTokens)
}

func TestGenerateQuery_BothProvidersFailing(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("boom")}
	fallback := &fakeProvider{name: "groq", err: errors.New("boom too")}
	agent := NewAgent(primary, fallback, logger.NewNopLogger())

	query, ok := agent.GenerateQuery(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "berapa jumlah siswa?"},
	})

	assert.False(t, ok)
	assert.Empty(t, query)
}

func TestGenerateQuery_NoIntent(t *testing.T) {
	primary := &fakeProvider{name: "gemini", response: "NO"}
	agent := NewAgent(primary, &fakeProvider{name: "groq"}, logger.NewNopLogger())

	_, ok := agent.GenerateQuery(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "halo!"},
	})

	assert.False(t, ok)
}
