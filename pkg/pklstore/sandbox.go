package pklstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"baknusai-be/internal/pkg/logger"
)

// Sandbox rejection and result messages. They are returned to the language
// model as context, so they stay in Indonesian like the rest of the prompt.
const (
	RejectionTypeI  = "[SISTEM] Akses Ditolak Tipe I: Demi alasan keamanan, sistem hanya mengizinkan perintah membaca data (SELECT)."
	RejectionTypeII = "[SISTEM] Akses Ditolak Tipe II: Ditemukan indikasi percobaan memanipulasi atau menghapus data. Perintah ini dibatalkan oleh server."
	NoDataMessage   = "[SISTEM] Query berhasil dijalankan, namun tidak ada data yang ditemukan."

	resultHeader     = "[SISTEM] Hasil pencarian dari database:\n"
	truncationNotice = "\n[PEMBERITAHUAN] Menampilkan 20 data pertama. Silahkan buka web prakerin.smkbn666.sch.id untuk informasi selengkapnya."
	queryErrorPrefix = "[SISTEM] Terjadi kesalahan dalam query SQL: "

	// hard row cap appended to every accepted statement
	rowLimit = 20
)

var (
	selectPrefixRe = regexp.MustCompile(`(?i)^(SELECT|WITH)\b`)
	// whole-word blocklist of mutating keywords, anywhere in the statement.
	// Known open gap: a blocklist cannot prove a statement harmless, it only
	// rejects the obvious manipulation attempts.
	forbiddenRe   = regexp.MustCompile(`(?i)\b(UPDATE|DELETE|INSERT|DROP|ALTER|TRUNCATE|EXEC|CREATE|REPLACE|GRANT|REVOKE)\b`)
	terminatorRe  = regexp.MustCompile(`;+$`)
	limitClauseRe = regexp.MustCompile(`(?i)\s+LIMIT\s+\d+`)
)

// QueryRunner executes a raw statement and returns ordered columns plus rows.
type QueryRunner interface {
	Query(ctx context.Context, query string) ([]string, []map[string]string, error)
}

// Sandbox validates and executes AI-generated SQL against the read-only PKL
// store. Every outcome, including refusal and failure, is rendered as a
// context string; the sandbox never returns an error to the pipeline.
type Sandbox struct {
	runner QueryRunner
	log    logger.ILogger
}

func NewSandbox(runner QueryRunner, log logger.ILogger) *Sandbox {
	return &Sandbox{runner: runner, log: log}
}

// Rewrite applies the fail-closed validation pipeline. It returns the
// statement that may be executed, or a rejection message and false.
// Exposed separately so the cap-override behavior is testable in isolation.
func Rewrite(query string) (string, string, bool) {
	q := strings.TrimSpace(query)

	if !selectPrefixRe.MatchString(q) {
		return "", RejectionTypeI, false
	}
	if forbiddenRe.MatchString(q) {
		return "", RejectionTypeII, false
	}

	// Strip the trailing terminator and any model-chosen LIMIT, then force
	// the server-side cap. The cap is always exactly rowLimit.
	q = strings.TrimSpace(terminatorRe.ReplaceAllString(q, ""))
	q = limitClauseRe.ReplaceAllString(q, "")
	q += fmt.Sprintf(" LIMIT %d", rowLimit)

	return q, "", true
}

// Execute validates the candidate statement and runs it, returning a
// human-readable rendering of up to 20 rows or a refusal/failure message.
func (s *Sandbox) Execute(ctx context.Context, query string) string {
	q, rejection, ok := Rewrite(query)
	if !ok {
		s.log.Warn("sandbox", "rejected generated SQL", map[string]interface{}{
			"query":     query,
			"rejection": rejection,
		})
		return rejection
	}

	columns, rows, err := s.runner.Query(ctx, q)
	if err != nil {
		s.log.Error("sandbox", "dynamic SQL execution failed", map[string]interface{}{
			"query": q,
			"error": err.Error(),
		})
		return queryErrorPrefix + err.Error()
	}

	if len(rows) == 0 {
		return NoDataMessage
	}

	var sb strings.Builder
	sb.WriteString(resultHeader)
	for i, row := range rows {
		parts := make([]string, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, fmt.Sprintf("%s: %s", col, row[col]))
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, strings.Join(parts, " | ")))
	}
	if len(rows) == rowLimit {
		sb.WriteString(truncationNotice)
	}
	return sb.String()
}

// IsQueryError reports whether a sandbox result string describes an
// execution failure (as opposed to data, no-data, or a rejection).
func IsQueryError(result string) bool {
	return strings.Contains(result, "Terjadi kesalahan")
}
