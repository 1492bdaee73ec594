package implementation

import (
	"errors"
	"testing"
	"time"

	"baknusai-be/internal/model"
	"baknusai-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestFirstContact_CreatesRecordWithOneSpent(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, loc)

	m := firstContact("budi@smkbn666.sch.id", now)

	assert.NotEqual(t, uuid.Nil, m.Id)
	assert.Equal(t, "budi@smkbn666.sch.id", m.Email)
	assert.Equal(t, "budi", m.Name, "name falls back to the mailbox local part")
	assert.Equal(t, 1, m.DailyRequestCount, "the creating request is already spent")
	require.NotNil(t, m.LastRequestDate)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), *m.LastRequestDate)
}

func TestFirstContact_RowSurvivesSameDayArithmetic(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, loc)

	m := firstContact("budi@smkbn666.sch.id", now)
	err := applyQuota(&m, now.Add(time.Hour), 100)

	require.NoError(t, err)
	assert.Equal(t, 2, m.DailyRequestCount)
}

func TestApplyQuota_FirstRequestOfDay(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)

	u := &model.User{DailyRequestCount: 0}
	err := applyQuota(u, now, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, u.DailyRequestCount)
	require.NotNil(t, u.LastRequestDate)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), *u.LastRequestDate)
}

func TestApplyQuota_IncrementsWithinSameDay(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, loc)
	last := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	u := &model.User{DailyRequestCount: 41, LastRequestDate: &last}
	err := applyQuota(u, now, 100)

	require.NoError(t, err)
	assert.Equal(t, 42, u.DailyRequestCount)
}

func TestApplyQuota_ResetsOnNewDay(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	yesterday := time.Date(2025, 3, 9, 0, 0, 0, 0, loc)
	now := time.Date(2025, 3, 10, 0, 0, 1, 0, loc)

	u := &model.User{DailyRequestCount: 100, LastRequestDate: &yesterday}
	err := applyQuota(u, now, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, u.DailyRequestCount, "stale counter must reset before spending")
}

func TestApplyQuota_RefusesAtLimit(t *testing.T) {
	loc := mustLoc(t, "Asia/Jakarta")
	now := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	u := &model.User{DailyRequestCount: 100, LastRequestDate: &today}
	err := applyQuota(u, now, 100)

	require.Error(t, err)
	assert.True(t, errors.Is(err, contract.ErrQuotaExceeded))
	assert.Equal(t, 100, u.DailyRequestCount, "refused request must not change the counter")
}

func TestApplyQuota_DayBoundaryUsesConfiguredZone(t *testing.T) {
	// 2025-03-10 17:30 UTC is already 2025-03-11 00:30 in Jakarta, so a
	// counter stamped for the Jakarta 10th must reset.
	jakarta := mustLoc(t, "Asia/Jakarta")
	last := time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta)
	nowUTC := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)

	u := &model.User{DailyRequestCount: 100, LastRequestDate: &last}
	err := applyQuota(u, nowUTC.In(jakarta), 100)

	require.NoError(t, err)
	assert.Equal(t, 1, u.DailyRequestCount)
}
