package medstatus

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("status row not found")
	// ErrDuplicate: otro request ganó la carrera del primer insert para la
	// misma day-key. El caller reintenta como update; nunca llega a la API.
	ErrDuplicate = errors.New("status row already exists")
)

type Repository interface {
	Get(ctx context.Context, userID, medicationID string, day time.Time) (StatusRow, error)
	ListForDay(ctx context.Context, userID string, day time.Time) ([]StatusRow, error)
	// Create falla con ErrDuplicate si ya hay fila para (user, medication, day).
	Create(ctx context.Context, row StatusRow) error
	Update(ctx context.Context, row StatusRow) error
}
