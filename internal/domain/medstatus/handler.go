package medstatus

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medalert/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medication-status", func(sr chi.Router) {
		sr.Get("/", getStatusHandler(svc))
		sr.Get("/{date}", getStatusHandler(svc))
		sr.Post("/toggle", toggleStatusHandler(svc))
		sr.Put("/{medicationID}", setStatusHandler(svc))
	})
}

type toggleRequest struct {
	MedicationID string `json:"medicationId"`
	Date         string `json:"date"` // YYYY-MM-DD opcional
}

type setRequest struct {
	Taken bool   `json:"taken"`
	Date  string `json:"date"` // YYYY-MM-DD opcional
}

type statusBody struct {
	Taken   bool       `json:"taken"`
	TakenAt *time.Time `json:"takenAt"`
}

type entryResponse struct {
	Medication medicationBody `json:"medication"`
	Status     statusBody     `json:"status"`
}

// medicationBody replica la forma del registry para la vista combinada.
type medicationBody struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Time      string `json:"time"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes,omitempty"`
}

type mutationResponse struct {
	MedicationID string     `json:"medicationId"`
	Taken        bool       `json:"taken"`
	TakenAt      *time.Time `json:"takenAt"`
}

// getStatusHandler godoc
// @Summary Estado de medicamentos para un día
// @Description Vista combinada registry × status. Sin fila persistida => taken=false sintético. Fecha inválida o ausente => hoy.
// @Tags medication-status
// @Produce json
// @Param date path string false "Día en formato YYYY-MM-DD (default hoy)"
// @Success 200 {array} entryResponse
// @Failure 401 {object} errorResponse
// @Router /medication-status/{date} [get]
func getStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		day := ParseDay(chi.URLParam(r, "date"), time.Now())

		entries, err := svc.StatusForDay(r.Context(), claims.UserID, day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, entryResponse{
				Medication: medicationBody{
					ID:        e.Medication.ID,
					Name:      e.Medication.Name,
					Dosage:    e.Medication.Dosage,
					Time:      e.Medication.Time,
					Frequency: e.Medication.Frequency,
					Notes:     e.Medication.Notes,
				},
				Status: statusBody{Taken: e.Taken, TakenAt: e.TakenAt},
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// toggleStatusHandler godoc
// @Summary Invertir taken de un medicamento
// @Description Flip atómico para la day-key. medicationId ausente o ajeno => 400.
// @Tags medication-status
// @Accept json
// @Produce json
// @Param payload body toggleRequest true "medicationId y date (opcional)"
// @Success 200 {object} mutationResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /medication-status/toggle [post]
func toggleStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req toggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(req.MedicationID) == "" {
			writeError(w, http.StatusBadRequest, "medication ID is required")
			return
		}

		day := ParseDay(req.Date, time.Now())

		row, err := svc.Toggle(r.Context(), claims.UserID, req.MedicationID, day)
		if err != nil {
			writeStatusError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, mutationResponse{
			MedicationID: row.MedicationID,
			Taken:        row.Taken,
			TakenAt:      row.TakenAt,
		})
	}
}

func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req setRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		day := ParseDay(req.Date, time.Now())

		row, err := svc.Set(r.Context(), claims.UserID, chi.URLParam(r, "medicationID"), req.Taken, day)
		if err != nil {
			writeStatusError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, mutationResponse{
			MedicationID: row.MedicationID,
			Taken:        row.Taken,
			TakenAt:      row.TakenAt,
		})
	}
}

func writeStatusError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "medication not found for this user")
		return
	}
	writeError(w, http.StatusInternalServerError, "server error")
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}
