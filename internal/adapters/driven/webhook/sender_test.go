package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendDocumentCreated(t *testing.T) {
	var got eventEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
	}))
	defer srv.Close()

	sender := NewSender(SenderOptions{URL: srv.URL})

	err := sender.SendDocumentCreated(context.Background(), "team-1", "doc_abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Event != "document.created" {
		t.Errorf("expected event document.created, got %s", got.Event)
	}
	if got.TeamID != "team-1" {
		t.Errorf("expected team-1, got %s", got.TeamID)
	}
	if got.Data["document_id"] != "doc_abc" {
		t.Errorf("expected document_id doc_abc, got %s", got.Data["document_id"])
	}
}

func TestSendLinkCreated(t *testing.T) {
	var got eventEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	sender := NewSender(SenderOptions{URL: srv.URL})

	err := sender.SendLinkCreated(context.Background(), "team-1", "doc_abc", "lnk_xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Event != "link.created" {
		t.Errorf("expected event link.created, got %s", got.Event)
	}
	if got.Data["document_id"] != "doc_abc" {
		t.Errorf("expected document_id doc_abc, got %s", got.Data["document_id"])
	}
	if got.Data["link_id"] != "lnk_xyz" {
		t.Errorf("expected link_id lnk_xyz, got %s", got.Data["link_id"])
	}
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := NewSender(SenderOptions{URL: srv.URL})

	if err := sender.SendDocumentCreated(context.Background(), "team-1", "doc_abc"); err == nil {
		t.Error("expected error for 502 response")
	}
}

func TestSend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	sender := NewSender(SenderOptions{URL: srv.URL})

	if err := sender.SendLinkCreated(context.Background(), "team-1", "doc_abc", "lnk_xyz"); err == nil {
		t.Error("expected error for unreachable endpoint")
	}
}
