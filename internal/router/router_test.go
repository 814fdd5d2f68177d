package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medalert/internal/adapters/auth/jwtauth"
	"medalert/internal/router"
)

func TestHTTP_EndToEnd_MedicationStatusFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	ownerID := "owner-1"

	// 1) Crear medicamento
	medID := createMedication(t, ts.URL, ownerID, map[string]any{
		"name":      "Aspirin",
		"dosage":    "100mg",
		"time":      "08:00",
		"frequency": "Daily",
	})

	// 2) Estado del día: una entrada, taken=false sintético
	{
		st, body := doReq(t, ts.URL, "GET", "/medication-status", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get status, got %d body=%s", st, string(body))
		}

		var entries []struct {
			Medication struct {
				ID string `json:"id"`
			} `json:"medication"`
			Status struct {
				Taken   bool       `json:"taken"`
				TakenAt *time.Time `json:"takenAt"`
			} `json:"status"`
		}
		mustUnmarshal(t, body, &entries)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Medication.ID != medID || entries[0].Status.Taken {
			t.Fatalf("unexpected entry: %+v", entries[0])
		}
	}

	// 3) Toggle => taken=true con takenAt
	{
		st, body := doReq(t, ts.URL, "POST", "/medication-status/toggle", ownerID, "", map[string]any{
			"medicationId": medID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle, got %d body=%s", st, string(body))
		}

		var resp struct {
			MedicationID string     `json:"medicationId"`
			Taken        bool       `json:"taken"`
			TakenAt      *time.Time `json:"takenAt"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.Taken || resp.TakenAt == nil {
			t.Fatalf("expected taken=true with takenAt, got %+v", resp)
		}
	}

	// 4) Segundo toggle => taken=false, takenAt null
	{
		st, body := doReq(t, ts.URL, "POST", "/medication-status/toggle", ownerID, "", map[string]any{
			"medicationId": medID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle, got %d body=%s", st, string(body))
		}

		var resp struct {
			Taken   bool       `json:"taken"`
			TakenAt *time.Time `json:"takenAt"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Taken || resp.TakenAt != nil {
			t.Fatalf("expected taken=false without takenAt, got %+v", resp)
		}
	}

	// 5) PUT explícito => taken=true
	{
		st, body := doReq(t, ts.URL, "PUT", "/medication-status/"+medID, ownerID, "", map[string]any{
			"taken": true,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set status, got %d body=%s", st, string(body))
		}
	}

	// 6) Fecha inválida no es error: resuelve a hoy (que quedó en true)
	{
		st, body := doReq(t, ts.URL, "GET", "/medication-status/not-a-date", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 for invalid date param, got %d body=%s", st, string(body))
		}

		var entries []struct {
			Status struct {
				Taken bool `json:"taken"`
			} `json:"status"`
		}
		mustUnmarshal(t, body, &entries)
		if len(entries) != 1 || !entries[0].Status.Taken {
			t.Fatalf("invalid date should fall back to today's view: %s", string(body))
		}
	}

	// 7) Otro día es otra clave: ayer sigue en default
	{
		yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		st, body := doReq(t, ts.URL, "GET", "/medication-status/"+yesterday, ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get status for yesterday, got %d body=%s", st, string(body))
		}

		var entries []struct {
			Status struct {
				Taken bool `json:"taken"`
			} `json:"status"`
		}
		mustUnmarshal(t, body, &entries)
		if len(entries) != 1 || entries[0].Status.Taken {
			t.Fatalf("yesterday should be default taken=false: %s", string(body))
		}
	}
}

func TestHTTP_OwnershipIsolation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	medID := createMedication(t, ts.URL, "owner-a", map[string]any{
		"name":      "Lisinopril",
		"dosage":    "10mg",
		"time":      "09:00",
		"frequency": "Daily",
	})

	// B no puede leer, editar ni borrar el medicamento de A.
	if st, _ := doReq(t, ts.URL, "GET", "/meds/"+medID, "owner-b", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 get foreign med, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "PUT", "/meds/"+medID, "owner-b", "", map[string]any{"name": "X"}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 update foreign med, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/meds/"+medID, "owner-b", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 delete foreign med, got %d", st)
	}

	// Toggle ajeno => 400, mismo mensaje que id inexistente (no filtra existencia).
	st, body := doReq(t, ts.URL, "POST", "/medication-status/toggle", "owner-b", "", map[string]any{
		"medicationId": medID,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 toggle foreign med, got %d body=%s", st, string(body))
	}

	// El listado y la vista de estado de B quedan vacíos.
	if _, body := doReq(t, ts.URL, "GET", "/meds", "owner-b", "", nil); string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("expected empty list for owner-b, got %s", string(body))
	}
}

func TestHTTP_Validation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// Hora inválida => 400
	for _, bad := range []string{"25:00", "9:30", "0960"} {
		st, _ := doReq(t, ts.URL, "POST", "/meds", "owner-1", "", map[string]any{
			"name":      "Aspirin",
			"dosage":    "100mg",
			"time":      bad,
			"frequency": "Daily",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for time %q, got %d", bad, st)
		}
	}

	// Toggle sin medicationId => 400
	st, _ := doReq(t, ts.URL, "POST", "/medication-status/toggle", "owner-1", "", map[string]any{})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 toggle without id, got %d", st)
	}

	// Sin credenciales => 401
	if st, _ := doReq(t, ts.URL, "GET", "/meds", "", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/medication-status", "", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 status without credentials, got %d", st)
	}
}

func TestHTTP_DeleteIdempotency(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	medID := createMedication(t, ts.URL, "owner-1", map[string]any{
		"name":      "Melatonin",
		"dosage":    "3mg",
		"time":      "22:00",
		"frequency": "Daily",
	})

	st, body := doReq(t, ts.URL, "DELETE", "/meds/"+medID, "owner-1", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 delete, got %d body=%s", st, string(body))
	}

	// Re-delete => 404
	if st, _ := doReq(t, ts.URL, "DELETE", "/meds/"+medID, "owner-1", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 re-delete, got %d", st)
	}
}

func TestHTTP_AuthFlowWithJWT(t *testing.T) {
	jwtSvc := jwtauth.New("test-secret", time.Hour)
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: jwtSvc,
		TokenIssuer:  jwtSvc,
	}))
	defer ts.Close()

	// Registro => 201 con user y token
	var token string
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/register", "", "", map[string]any{
			"name":     "Test User",
			"email":    "test@example.com",
			"password": "password123",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
		}

		var resp struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
			Token string `json:"token"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Token == "" || resp.User.Email != "test@example.com" {
			t.Fatalf("unexpected register response: %s", string(body))
		}
		token = resp.Token
	}

	// Email duplicado => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/register", "", "", map[string]any{
			"name":     "Test User",
			"email":    "test@example.com",
			"password": "password123",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 duplicate email, got %d", st)
		}
	}

	// Login incorrecto => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", "", map[string]any{
			"email":    "test@example.com",
			"password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad login, got %d", st)
		}
	}

	// /auth/me con Bearer => 200
	{
		st, body := doReq(t, ts.URL, "GET", "/auth/me", "", token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 me, got %d body=%s", st, string(body))
		}
	}

	// El token habilita el resto de la API; el debug header no existe en este modo.
	{
		st, body := doReq(t, ts.URL, "POST", "/meds", "", token, map[string]any{
			"name":      "Aspirin",
			"dosage":    "100mg",
			"time":      "08:00",
			"frequency": "Daily",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create med with token, got %d body=%s", st, string(body))
		}

		if st, _ := doReq(t, ts.URL, "GET", "/meds", "owner-1", "", nil); st != http.StatusUnauthorized {
			t.Fatalf("expected 401 with debug header in jwt mode, got %d", st)
		}
	}
}

func TestHTTP_Reminders(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	createMedication(t, ts.URL, "owner-1", map[string]any{
		"name":      "Vitamin D3",
		"dosage":    "2000 IU",
		"time":      "18:00",
		"frequency": "Daily",
	})
	createMedication(t, ts.URL, "owner-1", map[string]any{
		"name":      "Lisinopril",
		"dosage":    "10mg",
		"time":      "08:00",
		"frequency": "Daily",
	})

	st, body := doReq(t, ts.URL, "GET", "/reminders/today", "owner-1", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 reminders/today, got %d body=%s", st, string(body))
	}

	var occs []struct {
		Medication struct {
			Name string `json:"name"`
		} `json:"medication"`
		At     time.Time `json:"at"`
		IsPast bool      `json:"is_past"`
	}
	mustUnmarshal(t, body, &occs)
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	// Ordenadas ascendente por hora, independiente del orden del registry.
	if occs[0].Medication.Name != "Lisinopril" || occs[1].Medication.Name != "Vitamin D3" {
		t.Fatalf("occurrences out of order: %s", string(body))
	}

	if st, _ := doReq(t, ts.URL, "GET", "/reminders/upcoming", "owner-1", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 reminders/upcoming, got %d", st)
	}
}

func createMedication(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/meds", userID, "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, bearer string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("unmarshal %s: %v", string(body), err)
	}
}
