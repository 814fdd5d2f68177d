package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend permite forzar fallos por operación.
type fakeBackend struct {
	mu    sync.Mutex
	cards []Card

	failToggle bool
	failDelete bool
}

func (f *fakeBackend) Load(ctx context.Context) ([]Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Card, len(f.cards))
	copy(out, f.cards)
	return out, nil
}

func (f *fakeBackend) Toggle(ctx context.Context, medicationID string) (ToggleResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failToggle {
		return ToggleResult{}, errors.New("backend down")
	}
	for i := range f.cards {
		if f.cards[i].MedicationID == medicationID {
			f.cards[i].Taken = !f.cards[i].Taken
			if f.cards[i].Taken {
				now := time.Now()
				f.cards[i].TakenAt = &now
			} else {
				f.cards[i].TakenAt = nil
			}
			return ToggleResult{Taken: f.cards[i].Taken, TakenAt: f.cards[i].TakenAt}, nil
		}
	}
	return ToggleResult{}, ErrCardNotFound
}

func (f *fakeBackend) Delete(ctx context.Context, medicationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete {
		return errors.New("backend down")
	}
	for i := range f.cards {
		if f.cards[i].MedicationID == medicationID {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			return nil
		}
	}
	return ErrCardNotFound
}

// recordingNotifier cuenta avisos para verificar "exactamente uno".
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func seedCards() []Card {
	return []Card{
		{MedicationID: "m1", Name: "Aspirin", Dosage: "100mg", Time: "08:00", Frequency: "Daily"},
		{MedicationID: "m2", Name: "Metformin", Dosage: "500mg", Time: "12:00", Frequency: "Daily"},
	}
}

func TestToggle_OptimisticCommit(t *testing.T) {
	backend := &fakeBackend{cards: seedCards()}
	notifier := &recordingNotifier{}
	ctrl := NewController(backend, WithNotifier(notifier))

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Toggle(context.Background(), "m1"))

	cards := ctrl.Cards()
	assert.True(t, cards[0].Taken)
	assert.NotNil(t, cards[0].TakenAt)
	assert.Len(t, notifier.successes, 1)
	assert.Empty(t, notifier.errors)
}

func TestToggle_RollbackOnFailure(t *testing.T) {
	backend := &fakeBackend{cards: seedCards(), failToggle: true}
	notifier := &recordingNotifier{}
	ctrl := NewController(backend, WithNotifier(notifier))

	require.NoError(t, ctrl.Refresh(context.Background()))
	before := ctrl.Cards()

	err := ctrl.Toggle(context.Background(), "m1")
	require.Error(t, err)

	// El estado local vuelve exactamente al snapshot previo
	// y el aviso de error se emite una sola vez.
	assert.Equal(t, before, ctrl.Cards())
	assert.Len(t, notifier.errors, 1)
	assert.Empty(t, notifier.successes)
}

func TestDelete_Optimistic(t *testing.T) {
	backend := &fakeBackend{cards: seedCards()}
	ctrl := NewController(backend)

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Delete(context.Background(), "m1"))

	cards := ctrl.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "m2", cards[0].MedicationID)
}

func TestDelete_ResyncOnFailure(t *testing.T) {
	backend := &fakeBackend{cards: seedCards(), failDelete: true}
	notifier := &recordingNotifier{}
	ctrl := NewController(backend, WithNotifier(notifier))

	require.NoError(t, ctrl.Refresh(context.Background()))

	err := ctrl.Delete(context.Background(), "m1")
	require.Error(t, err)

	// Tras el fallo se re-sincroniza la lista completa desde el backend,
	// no se reinserta la tarjeta a mano.
	cards := ctrl.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "m1", cards[0].MedicationID)
	assert.Len(t, notifier.errors, 1)
}

func TestToggle_UnknownCard(t *testing.T) {
	backend := &fakeBackend{cards: seedCards()}
	ctrl := NewController(backend)

	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Error(t, ctrl.Toggle(context.Background(), "no-such"))
}
