package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"medalert/internal/domain/medstatus"
)

// statusRepo indexa por la day-key compuesta. El mutex hace de
// "constraint de unicidad": un Create sobre clave ocupada devuelve
// ErrDuplicate igual que el índice único de Postgres.
type statusRepo struct {
	mu    sync.RWMutex
	byKey map[string]medstatus.StatusRow
}

func NewStatusRepo() medstatus.Repository {
	return &statusRepo{
		byKey: make(map[string]medstatus.StatusRow),
	}
}

func dayKeyString(userID, medicationID string, day time.Time) string {
	return userID + "|" + medicationID + "|" + day.Format("2006-01-02")
}

func (r *statusRepo) Get(ctx context.Context, userID, medicationID string, day time.Time) (medstatus.StatusRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byKey[dayKeyString(userID, medicationID, day)]
	if !ok {
		return medstatus.StatusRow{}, medstatus.ErrNotFound
	}
	return row, nil
}

func (r *statusRepo) ListForDay(ctx context.Context, userID string, day time.Time) ([]medstatus.StatusRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := userID + "|"
	suffix := "|" + day.Format("2006-01-02")

	out := make([]medstatus.StatusRow, 0)
	for key, row := range r.byKey {
		if strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *statusRepo) Create(ctx context.Context, row medstatus.StatusRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(row.ID) == "" {
		return errors.New("status row id required")
	}

	key := dayKeyString(row.UserID, row.MedicationID, row.Day)
	if _, exists := r.byKey[key]; exists {
		return medstatus.ErrDuplicate
	}

	r.byKey[key] = row
	return nil
}

func (r *statusRepo) Update(ctx context.Context, row medstatus.StatusRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKeyString(row.UserID, row.MedicationID, row.Day)
	if _, exists := r.byKey[key]; !exists {
		return medstatus.ErrNotFound
	}

	r.byKey[key] = row
	return nil
}
