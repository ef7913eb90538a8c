//go:build integration

package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"portfolio-backend-go/internal/db"
	"portfolio-backend-go/internal/migrations"
	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
	"portfolio-backend-go/internal/storage/storagetest"
)

func startPostgres(t *testing.T, opts ...Option) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("portfolio"),
		tcpostgres.WithUsername("portfolio"),
		tcpostgres.WithPassword("portfolio"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	conn, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = migrations.Apply(ctx, conn, migrations.Files())
	require.NoError(t, err)
	return New(conn, opts...)
}

func TestStoreConformance(t *testing.T) {
	store := startPostgres(t)
	tables := []string{
		"users", "portfolio_settings", "about_content", "contact_info",
		"skills_categories", "skills", "education", "experiences", "projects",
		"open_source_contributions",
	}
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		_, err := store.db.Exec(`TRUNCATE ` + strings.Join(tables, ", ") + ` RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		return store
	})
}

func TestMigrationsAreRecordedOnce(t *testing.T) {
	store := startPostgres(t)
	ran, err := migrations.Apply(context.Background(), store.db, migrations.Files())
	require.NoError(t, err)
	assert.Empty(t, ran)
}

func TestPasswordsAreHashedAtRest(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	_, err := store.Users().Create(ctx, models.UserInput{Username: "admin", Password: "admin123", IsAdmin: true})
	require.NoError(t, err)

	var stored string
	require.NoError(t, store.db.Get(&stored, `SELECT password FROM users WHERE username = 'admin'`))
	assert.NotEqual(t, "admin123", stored)
	assert.True(t, strings.HasPrefix(stored, "$argon2id$"))
}

func TestSettingsUpsertStampsClockTime(t *testing.T) {
	stamp := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	store := startPostgres(t, WithClock(func() time.Time { return stamp }))

	settings, err := store.Settings().Upsert(context.Background(), models.PortfolioSettingsPatch{})
	require.NoError(t, err)
	assert.True(t, stamp.Equal(settings.UpdatedAt), "updatedAt = %s", settings.UpdatedAt)
}
