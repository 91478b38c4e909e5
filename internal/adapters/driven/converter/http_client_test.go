package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foliodocs/folio-core/internal/core/domain"
)

func testTask() *domain.ConversionTask {
	return domain.NewConversionTask(
		domain.TaskKindPDFToImage,
		"team-1",
		"doc_abc",
		"ver_xyz",
		map[string]string{"file": "team-1/doc_abc/report.pdf"},
	)
}

func TestConvert_Success(t *testing.T) {
	var received convertRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/convert" {
			t.Errorf("expected /convert path, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		for _, pct := range []int{25, 50, 75} {
			fmt.Fprintf(w, "{\"percentage\": %d}\n", pct)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(ClientOptions{URL: server.URL})
	task := testTask()

	var reported []int
	err := client.Convert(context.Background(), task, func(pct int) {
		reported = append(reported, pct)
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if received.TaskID != task.ID {
		t.Errorf("expected task id %s, got %s", task.ID, received.TaskID)
	}
	if received.Kind != string(domain.TaskKindPDFToImage) {
		t.Errorf("expected kind %s, got %s", domain.TaskKindPDFToImage, received.Kind)
	}
	if received.DocumentVersionID != "ver_xyz" {
		t.Errorf("expected version ver_xyz, got %s", received.DocumentVersionID)
	}

	if len(reported) != 3 || reported[0] != 25 || reported[2] != 75 {
		t.Errorf("expected progress [25 50 75], got %v", reported)
	}
}

func TestConvert_ServiceReportsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"percentage": 40}`)
		fmt.Fprintln(w, `{"error": "corrupt source file"}`)
	}))
	defer server.Close()

	client := NewHTTPClient(ClientOptions{URL: server.URL})

	var reported []int
	err := client.Convert(context.Background(), testTask(), func(pct int) {
		reported = append(reported, pct)
	})
	if err == nil {
		t.Fatal("expected error for failed conversion")
	}
	if !strings.Contains(err.Error(), "corrupt source file") {
		t.Errorf("expected service error message, got %v", err)
	}
	if len(reported) != 1 || reported[0] != 40 {
		t.Errorf("expected progress before failure to be relayed, got %v", reported)
	}
}

func TestConvert_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(ClientOptions{URL: server.URL})

	err := client.Convert(context.Background(), testTask(), nil)
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestConvert_EmptyStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(ClientOptions{URL: server.URL})

	if err := client.Convert(context.Background(), testTask(), nil); err != nil {
		t.Fatalf("empty progress stream should still succeed: %v", err)
	}
}

func TestConvert_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(ClientOptions{URL: server.URL})

	if err := client.Convert(context.Background(), testTask(), nil); err == nil {
		t.Fatal("expected error for unreachable service")
	}
}
