package service

import (
	"strings"
	"testing"

	"baknusai-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleFromTurns(t *testing.T) {
	tests := []struct {
		name  string
		turns []dto.ChatTurn
		want  string
	}{
		{
			name:  "first user turn wins",
			turns: []dto.ChatTurn{{Role: "user", Content: "berapa jumlah siswa?"}},
			want:  "berapa jumlah siswa?",
		},
		{
			name: "assistant turns are skipped",
			turns: []dto.ChatTurn{
				{Role: "assistant", Content: "Halo!"},
				{Role: "user", Content: "dimana Budi pkl"},
			},
			want: "dimana Budi pkl",
		},
		{
			name:  "blank user turn falls through to default",
			turns: []dto.ChatTurn{{Role: "user", Content: "   "}},
			want:  "Percakapan baru",
		},
		{
			name:  "no turns",
			turns: nil,
			want:  "Percakapan baru",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titleFromTurns(tt.turns))
		})
	}
}

func TestTitleFromTurns_TruncatesByRunes(t *testing.T) {
	long := strings.Repeat("é", 80)

	title := titleFromTurns([]dto.ChatTurn{{Role: "user", Content: long}})

	assert.Equal(t, strings.Repeat("é", 60), title)
	assert.True(t, utf8ValidString(title), "truncation must never split a rune")
}

func utf8ValidString(s string) bool {
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}

func TestTurnsToMessages_KeepsProviderTag(t *testing.T) {
	provider := "groq"
	messages := turnsToMessages([]dto.ChatTurn{
		{Role: "user", Content: "halo"},
		{Role: "model", Content: "Halo juga!", Provider: &provider},
	})

	require.Len(t, messages, 2)
	assert.Nil(t, messages[0].Provider)
	assert.Equal(t, "assistant", messages[1].Role, "model role normalizes to assistant")
	require.NotNil(t, messages[1].Provider)
	assert.Equal(t, "groq", *messages[1].Provider)
}
