package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medalert/internal/domain/medications"
)

type medRow struct {
	m medications.Medication
	// seq desempata created_at iguales: el orden newest-first tiene que
	// ser estable dentro de una sesión.
	seq uint64
}

type medicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]medRow
	seq  uint64
}

func NewMedicationsRepo() medications.Repository {
	return &medicationsRepo{
		byID: make(map[string]medRow),
	}
}

func (r *medicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medication already exists")
	}

	r.seq++
	r.byID[m.ID] = medRow{m: m, seq: r.seq}
	return nil
}

func (r *medicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return row.m, nil
}

func (r *medicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, exists := r.byID[m.ID]
	if !exists {
		return medications.ErrNotFound
	}
	row.m = m
	r.byID[m.ID] = row
	return nil
}

func (r *medicationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return medications.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *medicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]medRow, 0)
	for _, row := range r.byID {
		if row.m.OwnerUserID == ownerUserID {
			rows = append(rows, row)
		}
	}

	// Más reciente primero.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].seq > rows[j].seq
	})

	out := make([]medications.Medication, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.m)
	}
	return out, nil
}
