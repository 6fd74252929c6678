package imported

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "imported.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ImportedContact{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db), db
}

func seedContacts(t *testing.T, repo *Repository, ownerID uint, n int) {
	t.Helper()
	creds := contacts.Credentials{UserID: ownerID}
	status := contacts.Status{}
	for i := 0; i < n; i++ {
		var err error
		status, err = repo.Persist(context.Background(), contacts.Contact{
			Name:  fmt.Sprintf("Person %d", i),
			Email: fmt.Sprintf("person%d@example.com", i),
		}, status, creds)
		require.NoError(t, err)
	}
}

func TestRepository_Persist(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()
	creds := contacts.Credentials{UserID: 7}

	status, err := repo.Persist(ctx, contacts.Contact{Name: "Ada", Email: "ada@example.com"}, contacts.Status{}, creds)
	require.NoError(t, err)
	assert.Equal(t, contacts.Status{Imported: 1, Total: 1}, status)

	t.Run("duplicate email counts towards total only", func(t *testing.T) {
		status, err = repo.Persist(ctx, contacts.Contact{Name: "Ada L.", Email: "ada@example.com"}, status, creds)
		require.NoError(t, err)
		assert.Equal(t, contacts.Status{Imported: 1, Total: 2}, status)

		count, err := repo.Count(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same email for another owner is stored", func(t *testing.T) {
		other, err := repo.Persist(ctx, contacts.Contact{Email: "ada@example.com"}, contacts.Status{}, contacts.Credentials{UserID: 8})
		require.NoError(t, err)
		assert.Equal(t, contacts.Status{Imported: 1, Total: 1}, other)
	})
}

func TestRepository_Page(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()
	seedContacts(t, repo, 1, 7)
	seedContacts(t, repo, 2, 3)

	page, err := repo.Page(ctx, 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page.NumPages)
	assert.Equal(t, int64(7), page.Total)
	require.Len(t, page.Contacts, 3)
	assert.Equal(t, "person0@example.com", page.Contacts[0].Email)
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrevious())

	last, err := repo.Page(ctx, 1, 3, 3)
	require.NoError(t, err)
	require.Len(t, last.Contacts, 1)
	assert.Equal(t, "person6@example.com", last.Contacts[0].Email)
	assert.False(t, last.HasNext())

	t.Run("out of range page is clamped", func(t *testing.T) {
		p, err := repo.Page(ctx, 1, 99, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, p.Number)

		p, err = repo.Page(ctx, 1, -4, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Number)
	})

	t.Run("owner without contacts has one empty page", func(t *testing.T) {
		p, err := repo.Page(ctx, 99, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, p.NumPages)
		assert.Empty(t, p.Contacts)
	})
}

func TestRepository_GetByIDs(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()
	seedContacts(t, repo, 1, 3)
	seedContacts(t, repo, 2, 1)

	mine, err := repo.Page(ctx, 1, 1, 10)
	require.NoError(t, err)
	theirs, err := repo.Page(ctx, 2, 1, 10)
	require.NoError(t, err)

	ids := []uint{mine.Contacts[0].ID, mine.Contacts[2].ID, theirs.Contacts[0].ID, 9999}
	found, err := repo.GetByIDs(ctx, 1, ids)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "person0@example.com", found[0].Email)
	assert.Equal(t, "person2@example.com", found[1].Email)

	none, err := repo.GetByIDs(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_DeleteForOwner(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()
	seedContacts(t, repo, 1, 4)
	seedContacts(t, repo, 2, 2)

	deleted, err := repo.DeleteForOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	count, err := repo.Count(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	seedContacts(t, repo, 1, 2)

	old := entities.ImportedContact{OwnerID: 1, Email: "old@example.com", CreatedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, db.Create(&old).Error)

	deleted, err := repo.DeleteOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := repo.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
