package medications

import (
	"regexp"
	"time"
)

// Medication representa un medicamento registrado por un usuario.
type Medication struct {
	ID          string
	OwnerUserID string

	Name   string
	Dosage string
	// Hora del día en formato HH:MM (24h).
	Time      string
	Frequency string
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidTime reporta si s es una hora HH:MM válida (24h, cero a la izquierda).
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}
