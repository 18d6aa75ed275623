package domain

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 6

// User models a registered account. The password is only ever stored as a
// bcrypt hash; PasswordHash is empty for accounts that never set one.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RoleID       int64  `json:"-"`
	Role         *Role  `json:"role,omitempty"`
}

// SetPassword replaces the stored hash with a freshly salted hash of the
// given plaintext. Rejects passwords shorter than MinPasswordLength.
func (u *User) SetPassword(plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash. Returns
// false, never an error, for any mismatch including a missing hash.
func (u *User) CheckPassword(plaintext string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// HasPermission reports whether the user's role carries every bit of p.
func (u *User) HasPermission(p Permission) bool {
	return u.Role != nil && u.Role.HasPermission(p)
}
