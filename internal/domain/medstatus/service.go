package medstatus

import (
	"context"
	"errors"
	"strings"
	"time"

	"medalert/internal/domain/medications"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	meds *medications.Service
	now  func() time.Time
}

func NewService(repo Repository, meds *medications.Service) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

// Entry es la vista combinada registry × status de un día.
type Entry struct {
	Medication medications.Medication
	Taken      bool
	TakenAt    *time.Time
}

// StatusForDay devuelve una entrada por medicamento del usuario para el día.
// Sin fila persistida => default sintético taken=false, sin persistir nada.
// Status huérfanos (medicamento borrado) quedan fuera del join.
func (s *Service) StatusForDay(ctx context.Context, userID string, day time.Time) ([]Entry, error) {
	day = DayKey(day)

	meds, err := s.meds.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	byMed := make(map[string]StatusRow, len(rows))
	for _, row := range rows {
		byMed[row.MedicationID] = row
	}

	// El orden sigue al registry (más reciente primero).
	out := make([]Entry, 0, len(meds))
	for _, m := range meds {
		e := Entry{Medication: m}
		if row, ok := byMed[m.ID]; ok {
			e.Taken = row.Taken
			e.TakenAt = row.TakenAt
		}
		out = append(out, e)
	}
	return out, nil
}

// Toggle invierte taken para la day-key, creando la fila si no existe.
// El find-or-create corre contra la constraint de unicidad del store:
// si el insert pierde la carrera, se reintenta como update sobre la fila
// que ganó, así dos toggles concurrentes aplican dos flips lógicos.
func (s *Service) Toggle(ctx context.Context, userID, medicationID string, day time.Time) (StatusRow, error) {
	if err := s.checkOwnership(ctx, userID, medicationID); err != nil {
		return StatusRow{}, err
	}
	day = DayKey(day)

	row, err := s.repo.Get(ctx, userID, medicationID, day)
	switch {
	case err == nil:
		return s.flip(ctx, row)

	case errors.Is(err, ErrNotFound):
		created, cerr := s.createTaken(ctx, userID, medicationID, day)
		if cerr == nil {
			return created, nil
		}
		if !errors.Is(cerr, ErrDuplicate) {
			return StatusRow{}, cerr
		}
		// Perdimos el primer insert: la fila ya existe, flip normal.
		row, err = s.repo.Get(ctx, userID, medicationID, day)
		if err != nil {
			return StatusRow{}, err
		}
		return s.flip(ctx, row)

	default:
		return StatusRow{}, err
	}
}

// Set aplica un valor explícito con la misma disciplina de upsert que Toggle.
func (s *Service) Set(ctx context.Context, userID, medicationID string, taken bool, day time.Time) (StatusRow, error) {
	if err := s.checkOwnership(ctx, userID, medicationID); err != nil {
		return StatusRow{}, err
	}
	day = DayKey(day)

	row, err := s.repo.Get(ctx, userID, medicationID, day)
	switch {
	case err == nil:
		return s.apply(ctx, row, taken)

	case errors.Is(err, ErrNotFound):
		now := s.now()
		row = StatusRow{
			ID:           uuid.NewString(),
			UserID:       userID,
			MedicationID: medicationID,
			Day:          day,
			Taken:        taken,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if taken {
			row.TakenAt = &now
		}
		cerr := s.repo.Create(ctx, row)
		if cerr == nil {
			return row, nil
		}
		if !errors.Is(cerr, ErrDuplicate) {
			return StatusRow{}, cerr
		}
		row, err = s.repo.Get(ctx, userID, medicationID, day)
		if err != nil {
			return StatusRow{}, err
		}
		return s.apply(ctx, row, taken)

	default:
		return StatusRow{}, err
	}
}

func (s *Service) flip(ctx context.Context, row StatusRow) (StatusRow, error) {
	return s.apply(ctx, row, !row.Taken)
}

func (s *Service) apply(ctx context.Context, row StatusRow, taken bool) (StatusRow, error) {
	now := s.now()
	row.Taken = taken
	if taken {
		row.TakenAt = &now
	} else {
		row.TakenAt = nil
	}
	row.UpdatedAt = now

	if err := s.repo.Update(ctx, row); err != nil {
		return StatusRow{}, err
	}
	return row, nil
}

func (s *Service) createTaken(ctx context.Context, userID, medicationID string, day time.Time) (StatusRow, error) {
	now := s.now()
	row := StatusRow{
		ID:           uuid.NewString(),
		UserID:       userID,
		MedicationID: medicationID,
		Day:          day,
		Taken:        true,
		TakenAt:      &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return StatusRow{}, err
	}
	return row, nil
}

// checkOwnership: id ausente o de otro usuario => mismo error, sin filtrar
// si el medicamento existe.
func (s *Service) checkOwnership(ctx context.Context, userID, medicationID string) error {
	if strings.TrimSpace(medicationID) == "" {
		return ErrInvalidInput
	}
	if !s.meds.OwnedBy(ctx, userID, medicationID) {
		return ErrInvalidInput
	}
	return nil
}
