package entities

import (
	"time"
)

// ImportedContact is a contact brought in by an import run and waiting for the
// user to select it. The rows of one owner are removed once the selection is
// finished.
type ImportedContact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_owner_email;index" json:"owner_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:320;not null;uniqueIndex:idx_owner_email" json:"email"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ImportedContact) TableName() string {
	return "imported_contacts"
}

// DisplayName returns the name, or the email when the contact has no name.
func (c ImportedContact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Email
}
