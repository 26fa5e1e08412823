package models

import "time"

// User is an account record as stored in the users table. Password holds
// the encoded PBKDF2 hash, never the plaintext.
type User struct {
	ID          int64
	Email       string
	DisplayName string
	Password    string
	CreatedAt   time.Time
}
