// Package model contains the GORM persistence models mirroring the shared
// relational store. Exported so the GORM Gen tool can reference them.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. FullName and Address hold
// ciphertext, never plaintext; the repository applies the PII cipher.
// The CHECK constraint backs the balance invariant at the store level.
type AccountModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FullName      string    `gorm:"type:text;not null"`
	Username      string    `gorm:"type:varchar(50);unique;not null"`
	PasswordHash  string    `gorm:"type:varchar(100);not null"`
	Age           int       `gorm:"not null"`
	Address       string    `gorm:"type:text;not null"`
	Gender        string    `gorm:"type:varchar(20);not null"`
	MaritalStatus string    `gorm:"type:varchar(20);not null"`
	Balance       float64   `gorm:"type:numeric(12,2);not null;default:0;check:balance >= 0"`
	Role          string    `gorm:"type:varchar(20);not null;default:'standard'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Reviews []ReviewModel `gorm:"foreignKey:AccountID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
