// Package reminders proyecta horarios de toma a partir del registry.
// Es puro: sin persistencia ni timers; se recalcula en cada llamada con
// el reloj del caller. No hay scheduler server-side.
package reminders

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"medalert/internal/domain/medications"
)

var ErrBadTimeOfDay = errors.New("time of day must be HH:MM")

// Occurrence es la toma de un medicamento en un momento concreto del día.
type Occurrence struct {
	Medication medications.Medication
	At         time.Time
	IsPast     bool
}

// NextOccurrence combina la fecha de now con timeOfDay (HH:MM).
// Si el resultado ya pasó (<= now), avanza un día calendario.
func NextOccurrence(timeOfDay string, now time.Time) (time.Time, error) {
	hh, mm, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	occ := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	if !occ.After(now) {
		occ = occ.AddDate(0, 0, 1)
	}
	return occ, nil
}

// TodaysOccurrences computa la toma de hoy de cada medicamento, marcada
// past/future, ordenada ascendente por hora. Entradas con hora inválida
// se saltan (el registry no debería dejar pasar ninguna).
func TodaysOccurrences(meds []medications.Medication, now time.Time) []Occurrence {
	out := make([]Occurrence, 0, len(meds))
	for _, m := range meds {
		hh, mm, err := parseTimeOfDay(m.Time)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
		out = append(out, Occurrence{
			Medication: m,
			At:         at,
			IsPast:     at.Before(now),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

// Upcoming computa la próxima toma de cada medicamento, ordenada ascendente.
func Upcoming(meds []medications.Medication, now time.Time) []Occurrence {
	out := make([]Occurrence, 0, len(meds))
	for _, m := range meds {
		at, err := NextOccurrence(m.Time, now)
		if err != nil {
			continue
		}
		out = append(out, Occurrence{Medication: m, At: at})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

func parseTimeOfDay(s string) (hh, mm int, err error) {
	if !medications.ValidTime(s) {
		return 0, 0, ErrBadTimeOfDay
	}
	parts := strings.SplitN(s, ":", 2)
	hh, _ = strconv.Atoi(parts[0])
	mm, _ = strconv.Atoi(parts[1])
	return hh, mm, nil
}
