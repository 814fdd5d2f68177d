package reminders

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medalert/internal/domain/medications"
	"medalert/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, medsSvc *medications.Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/today", todayHandler(medsSvc))
		rr.Get("/upcoming", upcomingHandler(medsSvc))
	})
}

type occurrenceResponse struct {
	Medication medicationBody `json:"medication"`
	At         time.Time      `json:"at"`
	IsPast     bool           `json:"is_past"`
}

type upcomingResponse struct {
	Medication medicationBody `json:"medication"`
	NextAt     time.Time      `json:"next_at"`
}

type medicationBody struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Time      string `json:"time"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes,omitempty"`
}

func todayHandler(medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		meds, err := medsSvc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		occs := TodaysOccurrences(meds, time.Now())
		out := make([]occurrenceResponse, 0, len(occs))
		for _, o := range occs {
			out = append(out, occurrenceResponse{
				Medication: toMedicationBody(o.Medication),
				At:         o.At,
				IsPast:     o.IsPast,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func upcomingHandler(medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		meds, err := medsSvc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		occs := Upcoming(meds, time.Now())
		out := make([]upcomingResponse, 0, len(occs))
		for _, o := range occs {
			out = append(out, upcomingResponse{
				Medication: toMedicationBody(o.Medication),
				NextAt:     o.At,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toMedicationBody(m medications.Medication) medicationBody {
	return medicationBody{
		ID:        m.ID,
		Name:      m.Name,
		Dosage:    m.Dosage,
		Time:      m.Time,
		Frequency: m.Frequency,
		Notes:     m.Notes,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}
