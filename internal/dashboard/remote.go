package dashboard

import (
	"context"
	"net/http"
	"time"

	"medalert/internal/platform/httpclient"
)

// RemoteBackend habla con la API medalert usando el httpclient común.
type RemoteBackend struct {
	http *httpclient.Client
}

func NewRemoteBackend(baseURL, token string, timeout time.Duration) (*RemoteBackend, error) {
	c, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	c.AuthToken = token
	return &RemoteBackend{http: c}, nil
}

// Formas de la API (ver handlers de medstatus y medications).
type statusEntry struct {
	Medication struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Dosage    string `json:"dosage"`
		Time      string `json:"time"`
		Frequency string `json:"frequency"`
		Notes     string `json:"notes"`
	} `json:"medication"`
	Status struct {
		Taken   bool       `json:"taken"`
		TakenAt *time.Time `json:"takenAt"`
	} `json:"status"`
}

type toggleBody struct {
	MedicationID string `json:"medicationId"`
}

type toggleReply struct {
	MedicationID string     `json:"medicationId"`
	Taken        bool       `json:"taken"`
	TakenAt      *time.Time `json:"takenAt"`
}

func (b *RemoteBackend) Load(ctx context.Context) ([]Card, error) {
	var entries []statusEntry
	if err := b.http.DoJSON(ctx, http.MethodGet, "/medication-status", nil, &entries); err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, Card{
			MedicationID: e.Medication.ID,
			Name:         e.Medication.Name,
			Dosage:       e.Medication.Dosage,
			Time:         e.Medication.Time,
			Frequency:    e.Medication.Frequency,
			Notes:        e.Medication.Notes,
			Taken:        e.Status.Taken,
			TakenAt:      e.Status.TakenAt,
		})
	}
	return cards, nil
}

func (b *RemoteBackend) Toggle(ctx context.Context, medicationID string) (ToggleResult, error) {
	var reply toggleReply
	err := b.http.DoJSON(ctx, http.MethodPost, "/medication-status/toggle", toggleBody{MedicationID: medicationID}, &reply)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Taken: reply.Taken, TakenAt: reply.TakenAt}, nil
}

func (b *RemoteBackend) Delete(ctx context.Context, medicationID string) error {
	return b.http.DoJSON(ctx, http.MethodDelete, "/meds/"+medicationID, nil, nil)
}
