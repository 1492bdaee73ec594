package mapper

import (
	"testing"

	"baknusai-be/internal/entity"
	"baknusai-be/internal/model"

	"gorm.io/datatypes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessageToModel_PersistsProviderInColumnAndMeta(t *testing.T) {
	provider := "gemini"
	m := NewChatMapper().ChatMessageToModel(&entity.ChatMessage{
		Role:     "assistant",
		Content:  "Halo!",
		Provider: &provider,
	})

	require.NotNil(t, m.Provider)
	assert.Equal(t, "gemini", *m.Provider)
	assert.JSONEq(t, `{"provider":"gemini"}`, string(m.Meta))
}

func TestChatMessageToModel_NoProviderLeavesMetaEmpty(t *testing.T) {
	m := NewChatMapper().ChatMessageToModel(&entity.ChatMessage{
		Role:    "user",
		Content: "halo",
	})

	assert.Nil(t, m.Provider)
	assert.Empty(t, m.Meta)
}

func TestChatMessageToEntity_ProviderRoundTrip(t *testing.T) {
	provider := "groq"
	mapper := NewChatMapper()

	e := mapper.ChatMessageToEntity(mapper.ChatMessageToModel(&entity.ChatMessage{
		Role:     "assistant",
		Content:  "Halo!",
		Provider: &provider,
	}))

	require.NotNil(t, e.Provider)
	assert.Equal(t, "groq", *e.Provider)
}

func TestChatMessageToEntity_RecoversProviderFromMeta(t *testing.T) {
	e := NewChatMapper().ChatMessageToEntity(&model.ChatMessage{
		Role:    "assistant",
		Content: "Halo!",
		Meta:    datatypes.JSON(`{"provider":"gemini"}`),
	})

	require.NotNil(t, e.Provider)
	assert.Equal(t, "gemini", *e.Provider)
}
