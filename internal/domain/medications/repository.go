package medications

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("medication not found")

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	Update(ctx context.Context, m Medication) error
	// Delete falla con ErrNotFound si el id no existe (re-delete incluido).
	Delete(ctx context.Context, id string) error
	// ListByOwner devuelve los medicamentos del usuario, más reciente primero.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
}
