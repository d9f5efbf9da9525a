package domain

import "time"

// User is the identity record behind register/login. The id is generated
// server-side at registration and never accepted from clients. PasswordHash
// is opaque everywhere except the password hasher.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
