package implementation

import (
	"context"
	"errors"
	"strings"
	"time"

	"baknusai-be/internal/entity"
	"baknusai-be/internal/mapper"
	"baknusai-be/internal/model"
	"baknusai-be/internal/repository/contract"
	"baknusai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	loc    *time.Location
	mapper *mapper.UserMapper
}

// NewUserRepository builds the user store. loc defines the calendar day used
// for quota resets.
func NewUserRepository(db *gorm.DB, loc *time.Location) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		loc:    loc,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Upsert(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "tag", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// Re-read so the caller sees the persisted row (the conflict path keeps
	// the original id and counters).
	var stored model.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&stored).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) ConsumeDailyQuota(ctx context.Context, email string, limit int) (*entity.User, error) {
	var out *entity.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", email).
			First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A valid token can outlive the row (fresh store, login raced).
			// First contact creates the record, spending this request.
			m = firstContact(email, time.Now().In(r.loc))
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			out = r.mapper.ToEntity(&m)
			return nil
		}
		if err != nil {
			return err
		}

		if err := applyQuota(&m, time.Now().In(r.loc), limit); err != nil {
			return err
		}

		err = tx.Model(&model.User{}).Where("id = ?", m.Id).Updates(map[string]interface{}{
			"daily_request_count": m.DailyRequestCount,
			"last_request_date":   m.LastRequestDate,
		}).Error
		if err != nil {
			return err
		}

		out = r.mapper.ToEntity(&m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// firstContact builds the user row for an email the store has never seen,
// with this request already spent. The display name is refreshed from the
// mailbox directory on the next login.
func firstContact(email string, now time.Time) model.User {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	name := email
	if at := strings.Index(email, "@"); at >= 0 {
		name = email[:at]
	}
	return model.User{
		Id:                uuid.New(),
		Email:             email,
		Name:              name,
		DailyRequestCount: 1,
		LastRequestDate:   &today,
	}
}

// applyQuota holds the counter arithmetic: reset on a new calendar day,
// refuse at the limit, otherwise spend one request. Separated from the
// transaction so the day-boundary behavior is testable without a database.
func applyQuota(m *model.User, now time.Time, limit int) error {
	if m.LastRequestDate == nil || !sameDay(*m.LastRequestDate, now) {
		m.DailyRequestCount = 0
	}
	if m.DailyRequestCount >= limit {
		return contract.ErrQuotaExceeded
	}
	m.DailyRequestCount++
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	m.LastRequestDate = &today
	return nil
}

// sameDay compares calendar dates in now's location.
func sameDay(last, now time.Time) bool {
	ly, lm, ld := last.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return ly == ny && lm == nm && ld == nd
}
