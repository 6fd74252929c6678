package http

import (
	"context"

	"github.com/mrlokans/contacts/internal/database/imported"
	"github.com/mrlokans/contacts/internal/entities"
)

// ImportedContactStore is what the import screens need from contact storage.
type ImportedContactStore interface {
	Page(ctx context.Context, ownerID uint, number, perPage int) (*imported.Page, error)
	GetByIDs(ctx context.Context, ownerID uint, ids []uint) ([]entities.ImportedContact, error)
	DeleteForOwner(ctx context.Context, ownerID uint) (int64, error)
}
