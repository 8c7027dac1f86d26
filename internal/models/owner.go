package models

import (
	"database/sql/driver"
	"fmt"

	"expensetracker/internal/uuid"
)

// Owner says who a shared reference row (category, account) belongs to.
// It is either the system, meaning the row is a default visible to every
// user, or a single user. The zero value is System.
//
// Owner persists in a nullable user_id column: NULL is System.
type Owner struct {
	userID uuid.UUID
	owned  bool
}

// SystemOwner returns the owner of default rows.
func SystemOwner() Owner { return Owner{} }

// OwnedBy returns an owner bound to one user.
func OwnedBy(userID uuid.UUID) Owner { return Owner{userID: userID, owned: true} }

// IsSystem reports whether the row is a system default.
func (o Owner) IsSystem() bool { return !o.owned }

// UserID returns the owning user and true, or the nil id and false for
// system rows.
func (o Owner) UserID() (uuid.UUID, bool) { return o.userID, o.owned }

// VisibleTo reports whether caller may read a row with this owner.
func (o Owner) VisibleTo(caller uuid.UUID) bool {
	if o.IsSystem() {
		return true
	}
	return o.userID == caller
}

// String implements fmt.Stringer.
func (o Owner) String() string {
	if o.IsSystem() {
		return "system"
	}
	return "user:" + o.userID.String()
}

// Value implements driver.Valuer.
func (o Owner) Value() (driver.Value, error) {
	if o.IsSystem() {
		return nil, nil
	}
	return o.userID.String(), nil
}

// Scan implements sql.Scanner.
func (o *Owner) Scan(src any) error {
	if src == nil {
		*o = SystemOwner()
		return nil
	}
	var id uuid.UUID
	if err := id.Scan(src); err != nil {
		return fmt.Errorf("scan owner: %w", err)
	}
	// google/uuid scans an empty string to the nil UUID.
	if id == uuid.Nil {
		*o = SystemOwner()
		return nil
	}
	*o = OwnedBy(id)
	return nil
}

// GormDataType tells gorm how to create the column during AutoMigrate.
func (Owner) GormDataType() string { return "uuid" }
