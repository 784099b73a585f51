package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestLocationRepository_UpsertIfStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLocationRepository(db)

	rec := &domain.LocationRecord{
		UserID:         1,
		GridToken:      "tdr1vz",
		ResolvedAreaID: 5,
		UpdatedAt:      testNow,
		ExpiresAt:      testNow.Add(48 * time.Hour),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO location_records")).
		WithArgs(1, "tdr1vz", 5, testNow, testNow.Add(48*time.Hour), testNow.Add(-30*time.Minute)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	applied, err := repo.UpsertIfStale(context.Background(), rec, 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, applied)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	applied, err = repo.UpsertIfStale(context.Background(), rec, 30*time.Minute)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestLocationRepository_GetByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLocationRepository(db)
	cols := []string{"user_id", "grid_token", "resolved_area_id", "updated_at", "expires_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM location_records WHERE user_id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "tdr1vz", 5, testNow, testNow.Add(time.Hour)))
	rec, err := repo.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "tdr1vz", rec.GridToken)
	assert.Equal(t, 5, rec.ResolvedAreaID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM location_records WHERE user_id = $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(cols))
	_, err = repo.GetByUserID(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestLocationRepository_ListByTokenPrefixes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLocationRepository(db)
	cols := []string{"user_id", "grid_token", "resolved_area_id", "updated_at", "expires_at"}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE grid_token LIKE ANY($1) AND expires_at > $2")).
		WithArgs(sqlmock.AnyArg(), testNow).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "tdr1vz", 5, testNow, testNow.Add(time.Hour)).
			AddRow(2, "tdr1vy", 5, testNow, testNow.Add(time.Hour)))

	records, err := repo.ListByTokenPrefixes(context.Background(), []string{"tdr1v"}, testNow)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = repo.ListByTokenPrefixes(context.Background(), nil, testNow)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLocationRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLocationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SELECT user_id FROM location_records WHERE expires_at <= $1 LIMIT $2")).
		WithArgs(testNow, 100).
		WillReturnResult(sqlmock.NewResult(0, 7))
	n, err := repo.DeleteExpired(context.Background(), testNow, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM location_records WHERE expires_at <= $1")).
		WithArgs(testNow).
		WillReturnResult(sqlmock.NewResult(0, 0))
	n, err = repo.DeleteExpired(context.Background(), testNow, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrivacyRepository_GetOrCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrivacyRepository(db)
	cols := []string{"user_id", "location_enabled", "paused", "hide_distance", "verified_only_map", "updated_at"}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO NOTHING")).
		WithArgs(4, false, false, false, false, testNow).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM privacy_preferences WHERE user_id = $1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, true, false, true, false, testNow))

	pref, err := repo.GetOrCreate(context.Background(), 4, testNow)
	require.NoError(t, err)
	assert.True(t, pref.LocationEnabled)
	assert.True(t, pref.HideDistance)
}

func TestPrivacyRepository_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrivacyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE privacy_preferences")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Update(context.Background(), &domain.PrivacyPreference{UserID: 4, UpdatedAt: testNow})
	assert.ErrorIs(t, err, domain.ErrPrivacyNotFound)
}

func TestCrossedPathRepository_CreateIfAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCrossedPathRepository(db)

	cp := &domain.CrossedPath{
		UserLowID:  9,
		UserHighID: 3,
		GridToken:  "tdr1vz",
		AreaID:     5,
		CrossedAt:  testNow,
		ExpiresAt:  testNow.Add(7 * 24 * time.Hour),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO crossed_paths")).
		WithArgs(3, 9, "tdr1vz", 5, testNow, testNow.Add(7*24*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	created, err := repo.CreateIfAbsent(context.Background(), cp)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 11, cp.ID)
	assert.Equal(t, 3, cp.UserLowID)
	assert.Equal(t, 9, cp.UserHighID)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_low_id, user_high_id) DO UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	created, err = repo.CreateIfAbsent(context.Background(), cp)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCrossedPathRepository_GetByUsersCanonicalizes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCrossedPathRepository(db)
	cols := []string{"id", "user_low_id", "user_high_id", "grid_token", "area_id", "crossed_at", "expires_at"}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_low_id = $1 AND user_high_id = $2 AND expires_at > $3")).
		WithArgs(3, 9, testNow).
		WillReturnRows(sqlmock.NewRows(cols))
	_, err := repo.GetByUsers(context.Background(), 9, 3, testNow)
	assert.ErrorIs(t, err, domain.ErrCrossedPathNotFound)
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	birth := time.Date(1999, time.May, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, gender, birth_date, is_verified FROM users WHERE id = $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "gender", "birth_date", "is_verified"}).
			AddRow(2, "female", birth, true))

	user, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.GenderFemale, user.Gender)
	assert.True(t, user.IsVerified)
}

func TestAreaRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAreaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, lat, lon FROM areas ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "lat", "lon"}).
			AddRow(1, "Bengaluru", 12.9716, 77.5946))

	areas, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "Bengaluru", areas[0].Name)
}
