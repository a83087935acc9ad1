package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/AdamBeresnev/dam-aji/internal/utils"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func TestSessionStoreRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewSessionStore(db)
	ctx := context.Background()

	state, err := store.Load(ctx, "dam-aji-tournament-storage")
	require.NoError(t, err)
	assert.Nil(t, state, "nothing saved yet")

	saved := bracket.NewState()
	saved.Format = bracket.FormatLeague
	saved.Players = append(saved.Players,
		bracket.Player{ID: "001", Name: "Ahmad", Association: "Kelab Dam", Active: true, ICNumber: utils.Ptr("850101051234")},
		bracket.Player{ID: "002", Name: "Badrul", Association: "Kelab Dam", Active: true},
	)
	saved.Matches = append(saved.Matches, bracket.NewMatch(1, 1, "", saved.Players[0], saved.Players[1]))
	saved.CurrentRound = 1
	require.NoError(t, store.Save(ctx, "dam-aji-tournament-storage", saved))

	loaded, err := store.Load(ctx, "dam-aji-tournament-storage")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, loaded)

	// Saving again overwrites the same row
	saved.CurrentRound = 2
	require.NoError(t, store.Save(ctx, "dam-aji-tournament-storage", saved))
	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM tournament_sessions"))
	assert.Equal(t, 1, count)

	loaded, err = store.Load(ctx, "dam-aji-tournament-storage")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.CurrentRound)

	require.NoError(t, store.Delete(ctx, "dam-aji-tournament-storage"))
	loaded, err = store.Load(ctx, "dam-aji-tournament-storage")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionStoreCorruptDocument(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Exec("INSERT INTO tournament_sessions (key, document) VALUES (?, ?)", "broken", "{not json")
	require.NoError(t, err)

	_, err = NewSessionStore(db).Load(context.Background(), "broken")
	assert.ErrorContains(t, err, "failed to decode session")
}

func TestAdminStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewAdminStore(db)
	ctx := context.Background()

	seeded := &admin.Admin{
		ID:           uuid.New(),
		Username:     "admin",
		Role:         admin.RoleMainAdmin,
		PasswordHash: utils.Ptr("hash"),
	}
	require.NoError(t, store.CreateAdmin(ctx, seeded))

	oauth := &admin.Admin{
		ID:         uuid.New(),
		Username:   "Siti",
		Email:      utils.Ptr("siti@example.com"),
		Role:       admin.RolePersonal,
		Provider:   utils.Ptr("google"),
		ProviderID: utils.Ptr("g-123"),
	}
	require.NoError(t, store.CreateAdmin(ctx, oauth))

	fetched, err := store.GetAdmin(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", fetched.Username)
	assert.Equal(t, admin.RoleMainAdmin, fetched.Role)
	assert.Equal(t, "hash", utils.OrZero(fetched.PasswordHash))
	assert.False(t, fetched.CreatedAt.IsZero())

	byName, err := store.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byName.ID)

	byProvider, err := store.GetAdminByProvider(ctx, "google", "g-123")
	require.NoError(t, err)
	assert.Equal(t, oauth.ID, byProvider.ID)

	_, err = store.GetAdminByProvider(ctx, "discord", "g-123")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	oauth.Role = admin.RoleUrusetia
	oauth.AvatarURL = utils.Ptr("https://cdn.example.com/siti.png")
	require.NoError(t, store.UpdateProfile(ctx, oauth))
	require.NoError(t, store.TouchLastLogin(ctx, oauth.ID))
	require.NoError(t, store.UpdatePassword(ctx, seeded.ID, "new-hash"))

	updated, err := store.GetAdmin(ctx, oauth.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.RoleUrusetia, updated.Role)
	assert.NotNil(t, updated.LastLoginAt)

	all, err := store.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	duplicate := &admin.Admin{ID: uuid.New(), Username: "admin", Role: admin.RolePersonal}
	assert.Error(t, store.CreateAdmin(ctx, duplicate), "usernames are unique")
}

func TestAuditStorePrunes(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewAuditStore(db)
	ctx := context.Background()

	for i := 0; i < AuditLimit+5; i++ {
		require.NoError(t, store.Append(ctx, &AuditEntry{
			Admin:   "admin",
			Action:  "ADD_PLAYER",
			Details: fmt.Sprintf("player %03d", i),
		}))
	}

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM audit_log"))
	assert.Equal(t, AuditLimit, count)

	latest, err := store.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, fmt.Sprintf("player %03d", AuditLimit+4), latest[0].Details)
	assert.False(t, latest[0].CreatedAt.IsZero())
}
