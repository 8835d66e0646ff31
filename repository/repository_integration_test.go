package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"videoportalapi/bootstrap"
	"videoportalapi/config"
	"videoportalapi/models"
	"videoportalapi/pkg/embeddeddb"
	"videoportalapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB starts an embedded MySQL server with the migrated schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("starts a network server")
	}

	srv, err := embeddeddb.Start(context.Background(), "portal_repo")
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	db, err := config.Open(srv.DSN())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, bootstrap.Migrate(db))
	return db
}

func TestRepositories_CodeLookupIsExact(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	groups := repository.NewGroupRepositoryWithDB(db)

	require.NoError(t, groups.Create(ctx, nil, &models.Group{Name: "Group One", AccessCode: "G1"}))

	g, err := groups.GetByAccessCode(ctx, nil, "G1")
	require.NoError(t, err)
	assert.Equal(t, "Group One", g.Name)
	assert.Len(t, g.ID, 36)

	for _, probe := range []string{"g1", "G1 ", " G1"} {
		_, err := groups.GetByAccessCode(ctx, nil, probe)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "probe %q", probe)
	}
}

func TestRepositories_CodeColumnsAreCaseSensitive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	columns := []struct{ table, column string }{
		{"groups", "access_code"},
		{"clients", "access_code"},
		{"access_codes", "code"},
		{"feedback", "client_code"},
	}
	for _, col := range columns {
		var collation string
		err := db.Raw(
			"SELECT COLLATION_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?",
			col.table, col.column,
		).Scan(&collation).Error
		require.NoError(t, err)
		assert.Equal(t, "utf8mb4_bin", collation, "%s.%s", col.table, col.column)
	}

	groups := repository.NewGroupRepositoryWithDB(db)
	require.NoError(t, groups.Create(ctx, nil, &models.Group{Name: "Upper", AccessCode: "ACME1"}))
	require.NoError(t, groups.Create(ctx, nil, &models.Group{Name: "Lower", AccessCode: "acme1"}))

	g, err := groups.GetByAccessCode(ctx, nil, "acme1")
	require.NoError(t, err)
	assert.Equal(t, "Lower", g.Name)
}

func TestRepositories_DuplicateCodeIsTranslated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := repository.NewAccessCodeRepositoryWithDB(db)

	require.NoError(t, codes.Create(ctx, nil, &models.AccessCode{Code: "A1", Role: "admin", IsActive: true}))
	err := codes.Create(ctx, nil, &models.AccessCode{Code: "A1", Role: "moderator", IsActive: true})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestRepositories_ExpiryAndCascade(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	videos := repository.NewVideoRepositoryWithDB(db)
	feedback := repository.NewFeedbackRepositoryWithDB(db)
	base := repository.NewBaseRepositoryWithDB(db)

	now := time.Now().UTC().Truncate(time.Second)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	expired := &models.Video{VideoID: "VID_1", Name: "old", Link: "https://x/1", GroupID: "g1", ExpiresAt: &past, IsActive: true}
	live := &models.Video{VideoID: "VID_2", Name: "new", Link: "https://x/2", GroupID: "g1", ExpiresAt: &future, IsActive: true}
	require.NoError(t, videos.Create(ctx, nil, expired))
	require.NoError(t, videos.Create(ctx, nil, live))
	require.NoError(t, feedback.Create(ctx, nil, &models.Feedback{VideoID: expired.ID, ClientCode: "G1", TimestampSeconds: 3, Comment: "x"}))

	ids, err := videos.GetIDsExpired(ctx, nil, now)
	require.NoError(t, err)
	assert.Equal(t, []string{expired.ID}, ids)

	n, err := videos.CountByGroup(ctx, nil, "g1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	err = base.Transaction(ctx, func(tx *gorm.DB) error {
		if err := feedback.DeleteByVideoIDs(ctx, tx, ids); err != nil {
			return err
		}
		_, err := videos.DeleteByIDs(ctx, tx, ids)
		return err
	})
	require.NoError(t, err)

	rows, err := feedback.GetByVideo(ctx, nil, expired.ID, "")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = videos.GetByID(ctx, nil, expired.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, videos.SetActive(ctx, nil, "missing", false), gorm.ErrRecordNotFound)
}

func TestRepositories_SessionEntries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	entries := repository.NewSessionEntryRepositoryWithDB(db)

	require.NoError(t, entries.Put(ctx, nil, "tok", "access_role", "client"))
	require.NoError(t, entries.Put(ctx, nil, "tok", "access_role", "admin"))

	v, err := entries.Get(ctx, nil, "tok", "access_role")
	require.NoError(t, err)
	assert.Equal(t, "admin", v)

	require.NoError(t, entries.Delete(ctx, nil, "tok", "access_role"))
	_, err = entries.Get(ctx, nil, "tok", "access_role")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
