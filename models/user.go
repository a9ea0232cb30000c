package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an account that can hold roles. Role membership is the only
// relation the permission core reads; everything else about accounts is
// managed by the auth surface.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	Roles        []*Role   `json:"roles,omitempty" gorm:"many2many:user_roles;"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsMemberOf checks membership by role name.
// Assumes u.Roles is preloaded.
func (u *User) IsMemberOf(roleName string) bool {
	for _, role := range u.Roles {
		if role == nil { // Defensive check
			continue
		}
		if role.Name == roleName {
			return true
		}
	}
	return false
}
