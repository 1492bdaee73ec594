// Package pklstore reads the school's PKL (internship) MySQL database and
// renders context blocks for the assistant's system prompt. All readers are
// best-effort: a failing query degrades the prompt, it never aborts the
// chat request.
package pklstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"baknusai-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	summaryCacheKey = "pkl:summary"
	summaryCacheTTL = 60 * time.Second
)

// Store wraps the read-only PKL database handle.
type Store struct {
	db    *gorm.DB
	cache *gocache.Cache
	log   logger.ILogger
	loc   *time.Location
}

func NewStore(db *gorm.DB, log logger.ILogger, loc *time.Location) *Store {
	return &Store{
		db:    db,
		cache: gocache.New(summaryCacheTTL, 5*time.Minute),
		log:   log,
		loc:   loc,
	}
}

// Query runs a raw SQL statement and returns column order plus rows rendered
// as string maps. Satisfies the sandbox QueryRunner contract.
func (s *Store) Query(ctx context.Context, query string) ([]string, []map[string]string, error) {
	rows, err := s.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var result []map[string]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if values[i].Valid {
				row[col] = values[i].String
			} else {
				row[col] = "NULL"
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, result, nil
}

// orDash renders nullable columns the way the prompt expects.
func orDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func (s *Store) warn(op string, err error) {
	s.log.Warn("pklstore", fmt.Sprintf("%s failed, degrading context", op), map[string]interface{}{
		"error": err.Error(),
	})
}
