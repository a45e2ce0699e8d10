package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew_RequiresValidBaseURL(t *testing.T) {
	if _, err := New("", time.Second); err == nil {
		t.Fatal("esperaba error con base url vacía")
	}
	if _, err := New("sin-esquema", time.Second); err == nil {
		t.Fatal("esperaba error con base url inválida")
	}

	c, err := New("http://erp.local/api/ ", 0)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if c.BaseURL != "http://erp.local/api" {
		t.Fatalf("BaseURL = %q, esperaba sin barra final", c.BaseURL)
	}
	if c.HTTP.Timeout != DefaultTimeout {
		t.Fatalf("timeout = %v, esperaba default %v", c.HTTP.Timeout, DefaultTimeout)
	}
}

func TestDoJSON_RoundTrip(t *testing.T) {
	type ping struct {
		Msg string `json:"msg"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ping" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secreta" {
			t.Fatalf("X-Api-Key = %q", got)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("Content-Type = %q", ct)
		}
		var in ping
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(ping{Msg: "pong:" + in.Msg})
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out ping
	headers := map[string]string{"X-Api-Key": "secreta"}
	// path sin barra inicial también resuelve contra la BaseURL
	if err := c.DoJSON(context.Background(), http.MethodPost, "v1/ping", headers, ping{Msg: "oi"}, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Msg != "pong:oi" {
		t.Fatalf("out.Msg = %q", out.Msg)
	}
}

func TestDoJSON_Non2xxReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"paciente não encontrado"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = c.DoJSON(context.Background(), http.MethodGet, "/v1/pets/faltante", nil, nil, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("esperaba *HTTPError, vino %v", err)
	}
	if httpErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "paciente não encontrado") {
		t.Fatalf("body = %q", httpErr.Body)
	}
}
