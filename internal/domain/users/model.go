package users

import "time"

// User representa una cuenta registrada en el sistema.
type User struct {
	ID    string
	Name  string
	Email string

	// Hash bcrypt. Nunca se expone por la API.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
