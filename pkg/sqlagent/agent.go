// Package sqlagent turns a natural-language question plus conversation
// history into a single read-only SQL statement via a fast LLM, with a
// fallback provider when the primary is unavailable.
package sqlagent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"baknusai-be/internal/constant"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/pkg/llm"
)

const (
	// sentinel emitted by the model when the question is not about the database
	noIntentSentinel = "NO"

	fallbackTemperature = 0.1
	fallbackMaxTokens   = 500
)

var fenceRe = regexp.MustCompile("(?i)```sql|```")

// Agent generates candidate SQL statements. Provider failures are never
// fatal: they degrade to "no SQL intent".
type Agent struct {
	primary  llm.Provider
	fallback llm.Provider
	log      logger.ILogger
}

func NewAgent(primary, fallback llm.Provider, log logger.ILogger) *Agent {
	return &Agent{primary: primary, fallback: fallback, log: log}
}

// GenerateQuery asks the model to translate the latest user turn into SQL.
// Returns the candidate statement and true, or "" and false when the model
// declined, produced something that is not a SELECT, or both providers failed.
func (a *Agent) GenerateQuery(ctx context.Context, history []llm.Message) (string, bool) {
	userPrompt := buildUserPrompt(history)

	raw, err := a.primary.Generate(ctx, constant.TextToSQLPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: userPrompt},
	})
	if err != nil {
		a.log.Warn("sqlagent", "primary SQL agent failed, falling back", map[string]interface{}{
			"error": err.Error(),
		})
		raw, err = a.fallback.Generate(ctx, constant.TextToSQLPrompt, []llm.Message{
			{Role: llm.RoleUser, Content: userPrompt},
		},
			llm.WithTemperature(fallbackTemperature),
			llm.WithMaxTokens(fallbackMaxTokens),
		)
		if err != nil {
			a.log.Warn("sqlagent", "fallback SQL agent failed, skipping text-to-SQL", map[string]interface{}{
				"error": err.Error(),
			})
			return "", false
		}
	}

	return Classify(raw)
}

// Classify strips markdown fences from raw model output and decides whether
// it is a usable SQL candidate. Anything that does not start with SELECT
// (the "NO" sentinel included) means no SQL intent.
func Classify(raw string) (string, bool) {
	clean := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if clean == "" || strings.EqualFold(clean, noIntentSentinel) {
		return "", false
	}
	if !strings.HasPrefix(strings.ToUpper(clean), "SELECT") {
		return "", false
	}
	return clean, true
}

func buildUserPrompt(history []llm.Message) string {
	var sb strings.Builder
	sb.WriteString("[Histori Obrolan Sebagai Konteks]\n")
	for _, msg := range history {
		sb.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}
	sb.WriteString("\n")
	sb.WriteString(constant.TextToSQLTask)
	return sb.String()
}
