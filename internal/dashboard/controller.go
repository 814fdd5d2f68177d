package dashboard

import (
	"context"
	"fmt"
	"sync"
)

// Controller mantiene el view-state del tablero y aplica el protocolo
// optimista: snapshot del estado previo, estado especulativo inmediato,
// commit-or-revert según el resultado del backend.
//
// Dos toggles en vuelo sobre la misma tarjeta no se linealizan: las
// respuestas se aplican en orden de llegada (last response wins) y una
// respuesta lenta que falla puede revertir un estado optimista más
// nuevo. Es una ventana de staleness aceptada, no un bug a arreglar.
type Controller struct {
	mu      sync.Mutex
	cards   []Card
	backend Backend
	notify  Notifier
	speaker Speaker
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notify = n
		}
	}
}

func WithSpeaker(s Speaker) Option {
	return func(c *Controller) {
		if s != nil {
			c.speaker = s
		}
	}
}

func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		notify:  noopNotifier{},
		speaker: noopSpeaker{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh reemplaza el estado local con lo que diga el backend.
func (c *Controller) Refresh(ctx context.Context) error {
	cards, err := c.backend.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.cards = cards
	c.mu.Unlock()
	return nil
}

// Cards devuelve una copia del view-state actual.
func (c *Controller) Cards() []Card {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Toggle aplica el flip optimista y llama al backend.
// Éxito => el estado local ya era correcto; se ajusta takenAt con la
// verdad del server y se notifica. Fallo => revert al snapshot y un
// único aviso de error. Nunca se reintenta automáticamente.
func (c *Controller) Toggle(ctx context.Context, medicationID string) error {
	c.mu.Lock()
	idx := c.indexOf(medicationID)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("unknown medication %q", medicationID)
	}

	prev := c.cards[idx] // snapshot para el rollback
	c.cards[idx].Taken = !prev.Taken
	name := prev.Name
	c.mu.Unlock()

	res, err := c.backend.Toggle(ctx, medicationID)

	c.mu.Lock()
	idx = c.indexOf(medicationID)
	if err != nil {
		if idx >= 0 {
			c.cards[idx] = prev
		}
		c.mu.Unlock()
		c.notify.Error("could not update " + name)
		return err
	}

	if idx >= 0 {
		c.cards[idx].Taken = res.Taken
		c.cards[idx].TakenAt = res.TakenAt
	}
	c.mu.Unlock()

	if res.Taken {
		c.notify.Success(name + " marked as taken")
		c.speakAsync(name + " marked as taken")
	} else {
		c.notify.Success(name + " marked as pending")
	}
	return nil
}

// Delete saca la tarjeta localmente y luego llama al backend.
// Si falla, no reinserta en el mismo lugar: re-sincroniza la lista
// completa para evitar divergencias residuales.
func (c *Controller) Delete(ctx context.Context, medicationID string) error {
	c.mu.Lock()
	idx := c.indexOf(medicationID)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("unknown medication %q", medicationID)
	}
	name := c.cards[idx].Name
	c.cards = append(c.cards[:idx], c.cards[idx+1:]...)
	c.mu.Unlock()

	if err := c.backend.Delete(ctx, medicationID); err != nil {
		c.notify.Error("could not remove " + name)
		if rerr := c.Refresh(ctx); rerr != nil {
			return fmt.Errorf("delete failed and resync failed: %w", rerr)
		}
		return err
	}

	c.notify.Success(name + " removed")
	return nil
}

// speakAsync nunca bloquea el camino de mutación.
func (c *Controller) speakAsync(text string) {
	go c.speaker.Speak(text)
}

// indexOf requiere c.mu tomado.
func (c *Controller) indexOf(medicationID string) int {
	for i, card := range c.cards {
		if card.MedicationID == medicationID {
			return i
		}
	}
	return -1
}
