package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer hands out a client configured the way deployments are: the
// base URL carries the server's /api mount, paths stay bare.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api"), srv
}

func TestBaseURL_CarriesAPIMount(t *testing.T) {
	var gotPath string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]Bed{})
	})

	if _, err := c.ListBeds(context.Background(), BedFilter{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	// The mount prefix must appear exactly once.
	if gotPath != "/api/beds" {
		t.Errorf("request path = %q, want /api/beds", gotPath)
	}
}

func TestListBeds_SendsFilter(t *testing.T) {
	var gotQuery string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/api/beds" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Bed{{ID: 6, Status: BedOccupied, Room: "LEFT", Floor: 2}})
	})

	beds, err := c.ListBeds(context.Background(), BedFilter{Status: BedOccupied, Floor: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotQuery != "floor=2&status=occupied" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(beds) != 1 || beds[0].ID != 6 {
		t.Errorf("unexpected beds: %+v", beds)
	}
}

func TestAssignBed_PostsBody(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/beds/5/assign" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req AssignBedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Name != "Budi" {
			t.Errorf("expected patient Budi, got %q", req.Name)
		}
		json.NewEncoder(w).Encode(Bed{ID: 5, Status: BedOccupied, Patient: &Patient{ID: "p1", Name: req.Name}})
	})

	b, err := c.AssignBed(context.Background(), 5, AssignBedRequest{Name: "Budi"})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if b.Status != BedOccupied || b.Patient == nil || b.Patient.Name != "Budi" {
		t.Errorf("unexpected bed: %+v", b)
	}
}

func TestRequestError_CarriesServerMessage(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "bed 5 is occupied"})
	})

	_, err := c.AssignBed(context.Background(), 5, AssignBedRequest{Name: "Budi"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", reqErr.StatusCode)
	}
	if reqErr.Message != "bed 5 is occupied" {
		t.Errorf("expected server message, got %q", reqErr.Message)
	}
}

func TestRequestError_FallbackMessage(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream broke</html>"))
	})

	_, err := c.GetBed(context.Background(), 5)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "Network error" {
		t.Errorf("expected fallback message, got %q", reqErr.Message)
	}
}

func TestNetworkError_OnDeadServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := New(srv.URL)

	_, err := c.GetBed(context.Background(), 5)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestStats_FloorQuery(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("floor") != "3" {
			t.Errorf("expected floor=3, got %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(BedStats{Total: 22, Available: 20, Occupied: 2})
	})

	s, err := c.Stats(context.Background(), 3)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if s.Total != 22 || s.Occupied != 2 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestListHistory_Page(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/history" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Page[BedHistory]{
			Data:    []BedHistory{{ID: 1, BedID: 5, Action: "assigned"}},
			Total:   41,
			Limit:   20,
			Offset:  0,
			HasMore: true,
		})
	})

	page, err := c.ListHistory(context.Background(), 0, 20, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if page.Total != 41 || !page.HasMore || len(page.Data) != 1 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestDeleteNurse_NoContent(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/nurses/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteNurse(context.Background(), 3); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestReleaseAssignment_Path(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/nurse-assignments/7/release" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(NurseAssignment{ID: 7, NurseID: 1, BedID: 5})
	})

	a, err := c.ReleaseAssignment(context.Background(), 7)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if a.ID != 7 {
		t.Errorf("unexpected assignment: %+v", a)
	}
}
