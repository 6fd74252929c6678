// Package imported stores contacts brought in by import runs until the user
// has picked the ones to keep.
//
// # Usage
//
//	repo := imported.NewRepository(db)
//	status, err := repo.Persist(ctx, contact, status, creds)
//	page, err := repo.Page(ctx, ownerID, 1, 50)
package imported

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/entities"
)

// Repository handles imported contact database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new imported contacts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Persist stores one contact for creds.UserID and returns the updated status.
// Every call counts towards Total; only contacts whose email the owner does not
// have yet count towards Imported.
func (r *Repository) Persist(ctx context.Context, c contacts.Contact, status contacts.Status, creds contacts.Credentials) (contacts.Status, error) {
	status.Total++

	row := entities.ImportedContact{
		OwnerID: creds.UserID,
		Name:    c.Name,
		Email:   c.Email,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return status, fmt.Errorf("store contact %s: %w", c.Email, result.Error)
	}
	if result.RowsAffected > 0 {
		status.Imported++
	}

	return status, nil
}

// Count returns the number of imported contacts of an owner.
func (r *Repository) Count(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.ImportedContact{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// Page returns one page of an owner's imported contacts ordered by insertion.
// Out of range page numbers are clamped to the first or last page.
func (r *Repository) Page(ctx context.Context, ownerID uint, number, perPage int) (*Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	total, err := r.Count(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	page := newPage(total, number, perPage)

	err = r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(perPage).
		Find(&page.Contacts).Error
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	return page, nil
}

// GetByIDs returns the owner's contacts with the given IDs. Unknown IDs and IDs
// belonging to other owners are ignored.
func (r *Repository) GetByIDs(ctx context.Context, ownerID uint, ids []uint) ([]entities.ImportedContact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []entities.ImportedContact
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Order("id ASC").
		Find(&found).Error
	return found, err
}

// DeleteForOwner removes every imported contact of an owner.
func (r *Repository) DeleteForOwner(ctx context.Context, ownerID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&entities.ImportedContact{})
	return result.RowsAffected, result.Error
}

// DeleteOlderThan removes contacts imported more than retention ago.
func (r *Repository) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entities.ImportedContact{})
	return result.RowsAffected, result.Error
}
