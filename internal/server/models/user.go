package models

import "time"

// User is an entry of the user directory. Username is unique; ID is
// assigned by the directory on creation.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
