package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func stubServer(t *testing.T, handler http.HandlerFunc) BaseURLFunc {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return func() string { return ts.URL }
}

func TestOrgCreatePrintsResponse(t *testing.T) {
	base := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orgs/create" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": body["name"], "slug": "acme"})
	})

	cmd := newOrgCreateCommand(base)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--name", "Acme"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"slug": "acme"`) {
		t.Fatalf("expected slug in output, got: %s", buf.String())
	}
}

func TestEventsCommandQueriesHistory(t *testing.T) {
	base := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/events/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("org_id"); got != "7" {
			t.Errorf("org_id = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"events": []map[string]any{{"id": "abc", "type": "service_update"}}})
	})

	cmd := NewEventsCommand(base)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--org", "7", "--limit", "5"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"service_update"`) {
		t.Fatalf("expected event in output, got: %s", buf.String())
	}
}

func TestServerErrorsSurfaceMessage(t *testing.T) {
	base := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "slug already in use"})
	})

	cmd := newOrgCreateCommand(base)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--name", "Acme"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "slug already in use") {
		t.Fatalf("expected server error message, got %v", err)
	}
}

func TestServiceUpdateRequiresAField(t *testing.T) {
	base := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	cmd := newServiceUpdateCommand(base)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--org", "1", "--id", "1"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when no field flags are set")
	}
}

func TestParseTimeMs(t *testing.T) {
	if ms, err := parseTimeMs("1726833600000"); err != nil || ms != 1726833600000 {
		t.Fatalf("ms input: %d %v", ms, err)
	}
	want := time.Date(2026, 9, 2, 1, 0, 0, 0, time.UTC).UnixMilli()
	if ms, err := parseTimeMs("2026-09-02T01:00:00Z"); err != nil || ms != want {
		t.Fatalf("rfc3339 input: %d %v", ms, err)
	}
	if _, err := parseTimeMs("tomorrow"); err == nil {
		t.Fatal("expected error for bad time")
	}
}
