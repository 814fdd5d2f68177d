package medstatus

import "time"

// StatusRow es el registro taken/untaken de un medicamento para un día.
// A lo sumo existe una fila por (user, medication, day); la unicidad la
// impone el store, no solo la aplicación.
type StatusRow struct {
	ID string

	UserID       string
	MedicationID string

	// Día truncado a la medianoche local. Parte de la clave.
	Day time.Time

	Taken bool
	// TakenAt solo está seteado cuando Taken es true.
	TakenAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

const dayLayout = "2006-01-02"

// DayKey trunca t a la medianoche de su propio día.
// Dos requests a ambos lados de la medianoche caen en claves distintas:
// ese es el reset diario, no un bug.
func DayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDay interpreta un parámetro YYYY-MM-DD en la zona de now.
// Vacío o inválido => el día de now.
func ParseDay(s string, now time.Time) time.Time {
	if s != "" {
		if t, err := time.ParseInLocation(dayLayout, s, now.Location()); err == nil {
			return DayKey(t)
		}
	}
	return DayKey(now)
}
