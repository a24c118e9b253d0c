//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"guild-dashboard/internal/config"
	"guild-dashboard/internal/database"
	"guild-dashboard/internal/model"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) (*Store, string) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("guild_dashboard_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	cfg := config.DBConfig{Driver: config.DriverPostgres, URL: dsn, MaxConns: 4}

	db, err := database.Open(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	require.NoError(t, database.Migrate(db, cfg, log))

	return New(db), dsn
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	s, dsn := setupPostgres(t)

	_, err := s.CreateServer(ctx, "1", "pg")
	require.NoError(t, err)
	_, err = s.CreateServer(ctx, "1", "pg")
	assert.ErrorIs(t, err, ErrServerExists)

	welcome := "111"
	require.NoError(t, s.UpsertWelcomeLeave(ctx, "1", model.WelcomeLeaveUpdate{WelcomeChannelID: &welcome}))
	require.NoError(t, s.SetLogChannel(ctx, "1", "10"))
	require.NoError(t, s.SetLogChannel(ctx, "1", "11"))
	assert.ErrorIs(t, s.SetDynamicVoice(ctx, "404", "1"), ErrServerNotFound)

	created, err := s.UpsertReactionRole(ctx, model.ReactionRole{ServerID: "1", ChannelID: "c", MessageID: "m", Emoji: "a", RoleID: "r"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = s.UpsertReactionRole(ctx, model.ReactionRole{ServerID: "1", ChannelID: "c", MessageID: "m", Emoji: "b", RoleID: "r"})
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, s.DeleteReactionRole(ctx, "1", "m", "a"))
	roles, err := s.ListReactionRoles(ctx, "1")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "b", roles[0].Emoji)

	logCh, err := s.GetLogChannel(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "11", logCh.LogChannelID)

	require.NoError(t, s.DeleteServer(ctx, "1"))
	snap, err := s.LoadSnapshot(ctx, "1")
	require.NoError(t, err)
	assert.True(t, snap.Empty())

	log, _ := test.NewNullLogger()
	require.NoError(t, database.MigrateDown(dsn, 1))
	require.NoError(t, database.MigrateUp(dsn, log))
}
