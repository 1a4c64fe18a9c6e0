package nurse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func doRequest(e *echo.Echo, method, path, body string, params map[string]string, fn echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return rec, fn(c)
}

func TestHandler_CreateNurse(t *testing.T) {
	svc, _, _ := newTestService()
	h, e := NewHandler(svc), echo.New()

	body := `{"name":"Siti Rahayu","employeeId":"N-041"}`
	rec, err := doRequest(e, http.MethodPost, "/nurses", body, nil, h.CreateNurse)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var n Nurse
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.ID == 0 || n.Name != "Siti Rahayu" || n.Status != StatusActive {
		t.Errorf("unexpected nurse: %+v", n)
	}
}

func TestHandler_CreateNurse_MissingName(t *testing.T) {
	svc, _, _ := newTestService()
	h, e := NewHandler(svc), echo.New()

	_, err := doRequest(e, http.MethodPost, "/nurses", `{}`, nil, h.CreateNurse)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_GetNurse_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	h, e := NewHandler(svc), echo.New()

	_, err := doRequest(e, http.MethodGet, "/nurses/99", "", map[string]string{"id": "99"}, h.GetNurse)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_UpdateAndDeleteNurse(t *testing.T) {
	svc, _, _ := newTestService()
	h, e := NewHandler(svc), echo.New()

	rec, err := doRequest(e, http.MethodPost, "/nurses", `{"name":"Siti"}`, nil, h.CreateNurse)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	var n Nurse
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec, err = doRequest(e, http.MethodPut, "/nurses/1", `{"status":"inactive"}`, map[string]string{"id": "1"}, h.UpdateNurse)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Status != StatusInactive {
		t.Errorf("expected inactive, got %s", n.Status)
	}

	rec, err = doRequest(e, http.MethodDelete, "/nurses/1", "", map[string]string{"id": "1"}, h.DeleteNurse)
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	_, err = doRequest(e, http.MethodGet, "/nurses/1", "", map[string]string{"id": "1"}, h.GetNurse)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func TestHandler_AssignmentLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	h, e := NewHandler(svc), echo.New()

	if _, err := doRequest(e, http.MethodPost, "/nurses", `{"name":"Siti"}`, nil, h.CreateNurse); err != nil {
		t.Fatalf("create error: %v", err)
	}

	rec, err := doRequest(e, http.MethodPost, "/nurse-assignments", `{"nurseId":1,"bedId":5}`, nil, h.CreateAssignment)
	if err != nil {
		t.Fatalf("assign error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var a Assignment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec, err = doRequest(e, http.MethodPut, "/nurse-assignments/1/release", "", map[string]string{"id": "1"}, h.ReleaseAssignment)
	if err != nil {
		t.Fatalf("release error: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.ReleasedAt == nil {
		t.Error("expected releasedAt set after release")
	}

	_, err = doRequest(e, http.MethodPut, "/nurse-assignments/1/release", "", map[string]string{"id": "1"}, h.ReleaseAssignment)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double release, got %v", err)
	}
}

func TestHandler_ListAssignments_Envelope(t *testing.T) {
	svc, _, _ := newTestService()
	h, e := NewHandler(svc), echo.New()

	if _, err := doRequest(e, http.MethodPost, "/nurses", `{"name":"Siti"}`, nil, h.CreateNurse); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := doRequest(e, http.MethodPost, "/nurse-assignments", `{"nurseId":1,"bedId":5}`, nil, h.CreateAssignment); err != nil {
		t.Fatalf("assign error: %v", err)
	}

	rec, err := doRequest(e, http.MethodGet, "/nurse-assignments?active=true", "", nil, h.ListAssignments)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	var resp struct {
		Data  []*Assignment `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].BedID != 5 {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}
