package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("not the owner")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Dosage    string
	Time      string
	Frequency string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}

	name := strings.TrimSpace(in.Name)
	dosage := strings.TrimSpace(in.Dosage)
	frequency := strings.TrimSpace(in.Frequency)

	if name == "" || dosage == "" || frequency == "" {
		return Medication{}, ErrInvalidInput
	}
	if !ValidTime(in.Time) {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Dosage:      dosage,
		Time:        in.Time,
		Frequency:   frequency,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Get devuelve el medicamento solo si pertenece a ownerUserID.
func (s *Service) Get(ctx context.Context, ownerUserID, id string) (Medication, error) {
	m, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Medication{}, err
	}
	if m.OwnerUserID != ownerUserID {
		return Medication{}, ErrForbidden
	}
	return m, nil
}

// UpdateInput usa punteros para updates parciales: nil = no tocar.
type UpdateInput struct {
	Name      *string
	Dosage    *string
	Time      *string
	Frequency *string
	Notes     *string
}

func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (Medication, error) {
	m, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return Medication{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dosage != nil {
		if strings.TrimSpace(*in.Dosage) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.Time != nil {
		// Se revalida el formato solo si viene la hora.
		if !ValidTime(*in.Time) {
			return Medication{}, ErrInvalidInput
		}
		m.Time = *in.Time
	}
	if in.Frequency != nil {
		if strings.TrimSpace(*in.Frequency) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Frequency = strings.TrimSpace(*in.Frequency)
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}

	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Delete no borra los status históricos del medicamento: las filas quedan
// huérfanas y las lecturas las ignoran al hacer el join contra el registry.
func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	if _, err := s.Get(ctx, ownerUserID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// OwnedBy reporta si el medicamento existe y pertenece al usuario.
// Lo usa medstatus para validar toggles sin acoplar handlers.
func (s *Service) OwnedBy(ctx context.Context, ownerUserID, id string) bool {
	_, err := s.Get(ctx, ownerUserID, id)
	return err == nil
}
