package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNoAuthMethod is returned when a user would be saved without any way to sign in.
var ErrNoAuthMethod = errors.New("user must have a password or a linked Google account")

// User represents the user model in the database. Email is matched exactly
// as stored; no case folding is applied.
type User struct {
	Base
	Email           string  `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName     string  `gorm:"not null" json:"displayName"`
	PasswordHash    *string `json:"-"`
	GoogleSubjectID *string `gorm:"uniqueIndex" json:"-"`
	AvatarURL       *string `json:"avatarUrl,omitempty"`
}

// HasPassword reports whether the user can sign in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasGoogleLink reports whether a Google subject is attached.
func (u *User) HasGoogleLink() bool {
	return u.GoogleSubjectID != nil && *u.GoogleSubjectID != ""
}

// BeforeSave enforces that every persisted user keeps at least one
// authentication method.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if !u.HasPassword() && !u.HasGoogleLink() {
		return ErrNoAuthMethod
	}
	return nil
}
