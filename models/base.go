package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every persisted model.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BeforeCreate assigns an id so the same code path works on postgres and sqlite.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b Base) GetID() uuid.UUID {
	return b.ID
}

// Ownership marks a model as belonging to a user through user_id.
type Ownership struct {
	UserID uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;index;not null"`
}

func (o *Ownership) SetOwner(userID uuid.UUID) {
	o.UserID = userID
}

func (o Ownership) OwnerID() uuid.UUID {
	return o.UserID
}

// Owned is implemented by models stamped with the authenticated user on create.
type Owned interface {
	SetOwner(userID uuid.UUID)
	OwnerID() uuid.UUID
}

// OwnerColumn is the foreign key every owned table uses.
const OwnerColumn = "user_id"

// jsonStrings keeps list columns from being stored as JSON null.
func jsonStrings(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](values)
}

func cloneStrings(values []string) []string {
	return append([]string{}, values...)
}
