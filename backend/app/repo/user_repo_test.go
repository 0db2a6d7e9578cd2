package repo

import (
	"account-service/backend/app/models"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func seed(t *testing.T, r *UserRepository, username, email string) *models.User {
	t.Helper()
	u, err := r.Insert(context.Background(), &models.User{Username: username, Email: email, PasswordHash: "hash", JobRole: "dev"})
	require.NoError(t, err)
	return u
}

func TestInsert_AssignsID(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	u := seed(t, r, "alice", "a@x.com")
	require.NotZero(t, u.ID)

	got, err := r.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "a@x.com", got.Email)
}

func TestInsert_DuplicateKey(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{name: "same username", username: "alice", email: "other@x.com"},
		{name: "same email", username: "bob", email: "a@x.com"},
		{name: "both", username: "alice", email: "a@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewUserRepository(newTestDB(t))
			seed(t, r, "alice", "a@x.com")
			_, err := r.Insert(context.Background(), &models.User{Username: tt.username, Email: tt.email, PasswordHash: "h", JobRole: "dev"})
			require.ErrorIs(t, err, ErrDuplicateKey)
		})
	}
}

func TestFindByUsernameOrEmail(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	seed(t, r, "alice", "a@x.com")
	ctx := context.Background()

	u, err := r.FindByUsernameOrEmail(ctx, "alice", "nobody@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	u, err = r.FindByUsernameOrEmail(ctx, "nobody", "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = r.FindByUsernameOrEmail(ctx, "nobody", "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByUsernameAndEmail(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	seed(t, r, "alice", "a@x.com")
	seed(t, r, "bob", "b@x.com")
	ctx := context.Background()

	u, err := r.FindByUsernameAndEmail(ctx, "alice", "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = r.FindByUsernameAndEmail(ctx, "alice", "b@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID_Missing(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	_, err := r.FindByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSave(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	u := seed(t, r, "alice", "a@x.com")
	seed(t, r, "bob", "b@x.com")
	ctx := context.Background()

	u.Email = "new@x.com"
	_, err := r.Save(ctx, u)
	require.NoError(t, err)
	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new@x.com", got.Email)

	u.Username = "bob"
	_, err = r.Save(ctx, u)
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestStoreUnavailable(t *testing.T) {
	gdb := newTestDB(t)
	r := NewUserRepository(gdb)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = r.FindByID(context.Background(), 1)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
