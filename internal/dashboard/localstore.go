package dashboard

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// storageKey es la clave fija bajo la que el cliente persiste su lista
// (mismo nombre que usaba el localStorage del front).
const storageKey = "medalert-medications"

// LocalStore persiste la lista de tarjetas en un archivo JSON local:
// {"medalert-medications": [...]}. Contenido corrupto o ilegible cae
// al set de demo en vez de fallar.
type LocalStore struct {
	mu   sync.Mutex
	path string
}

func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

func (s *LocalStore) Load() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return DemoCards()
	}

	var doc map[string][]Card
	if err := json.Unmarshal(raw, &doc); err != nil {
		return DemoCards()
	}

	cards, ok := doc[storageKey]
	if !ok || cards == nil {
		return DemoCards()
	}
	return cards
}

func (s *LocalStore) Save(cards []Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(map[string][]Card{storageKey: cards}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// DemoCards es el set fijo de demostración para el modo sin sesión.
func DemoCards() []Card {
	return []Card{
		{MedicationID: "1", Name: "Lisinopril", Dosage: "10mg", Time: "08:00", Frequency: "Daily", Notes: "Take with food"},
		{MedicationID: "2", Name: "Metformin", Dosage: "500mg", Time: "12:00", Frequency: "Daily", Notes: "Take with lunch"},
		{MedicationID: "3", Name: "Vitamin D3", Dosage: "2000 IU", Time: "18:00", Frequency: "Daily"},
		{MedicationID: "4", Name: "Melatonin", Dosage: "3mg", Time: "22:00", Frequency: "Daily", Notes: "30 minutes before bed"},
	}
}

// LocalBackend implementa Backend sobre LocalStore: escrituras síncronas,
// sin camino de fallo de red. La misma forma optimista del Controller
// funciona igual; acá el commit es inmediato.
type LocalBackend struct {
	store *LocalStore
	now   func() time.Time
}

func NewLocalBackend(store *LocalStore) *LocalBackend {
	return &LocalBackend{
		store: store,
		now:   time.Now,
	}
}

func (b *LocalBackend) Load(ctx context.Context) ([]Card, error) {
	return b.store.Load(), nil
}

func (b *LocalBackend) Toggle(ctx context.Context, medicationID string) (ToggleResult, error) {
	cards := b.store.Load()
	for i := range cards {
		if cards[i].MedicationID != medicationID {
			continue
		}

		cards[i].Taken = !cards[i].Taken
		if cards[i].Taken {
			now := b.now()
			cards[i].TakenAt = &now
		} else {
			cards[i].TakenAt = nil
		}

		if err := b.store.Save(cards); err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Taken: cards[i].Taken, TakenAt: cards[i].TakenAt}, nil
	}
	return ToggleResult{}, ErrCardNotFound
}

func (b *LocalBackend) Delete(ctx context.Context, medicationID string) error {
	cards := b.store.Load()
	for i := range cards {
		if cards[i].MedicationID == medicationID {
			cards = append(cards[:i], cards[i+1:]...)
			return b.store.Save(cards)
		}
	}
	return ErrCardNotFound
}
