// Package dashboard es la orquestación lado cliente del tablero:
// estado local de tarjetas, mutación optimista con rollback y la
// selección remote-API vs store local según haya sesión o no.
package dashboard

import (
	"context"
	"errors"
	"time"
)

// ErrCardNotFound: la tarjeta pedida no está en el backend.
var ErrCardNotFound = errors.New("medication not in dashboard")

// Card es el view-object de un medicamento en el tablero.
// Los tags JSON son los del store local del cliente.
type Card struct {
	MedicationID string     `json:"id"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	Time         string     `json:"time"`
	Frequency    string     `json:"frequency"`
	Notes        string     `json:"notes,omitempty"`
	Taken        bool       `json:"taken"`
	TakenAt      *time.Time `json:"takenAt,omitempty"`
}

// ToggleResult es lo que el backend reporta tras un flip.
type ToggleResult struct {
	Taken   bool
	TakenAt *time.Time
}

// Backend abstrae registry + status para el tablero. Hay dos
// implementaciones con el mismo contrato: RemoteBackend (API HTTP,
// asíncrono y falible) y LocalBackend (archivo local, síncrono).
type Backend interface {
	Load(ctx context.Context) ([]Card, error)
	Toggle(ctx context.Context, medicationID string) (ToggleResult, error)
	Delete(ctx context.Context, medicationID string) error
}

// Notifier recibe las confirmaciones/errores del tablero (toasts).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Speaker lee en voz alta las confirmaciones. Siempre fire-and-forget:
// nunca bloquea la mutación.
type Speaker interface {
	Speak(text string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

type noopSpeaker struct{}

func (noopSpeaker) Speak(string) {}
