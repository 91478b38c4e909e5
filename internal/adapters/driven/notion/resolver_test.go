package notion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolvePageID_DirectExtraction(t *testing.T) {
	r := NewResolver(ResolverOptions{})
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "notion.so URL with trailing id",
			key:  "https://www.notion.so/acme/Quarterly-Review-0123456789abcdef0123456789abcdef",
			want: "01234567-89ab-cdef-0123-456789abcdef",
		},
		{
			name: "notion.site URL",
			key:  "https://acme.notion.site/Launch-Plan-fedcba9876543210fedcba9876543210",
			want: "fedcba98-7654-3210-fedc-ba9876543210",
		},
		{
			name: "bare 32-hex id",
			key:  "0123456789abcdef0123456789abcdef",
			want: "01234567-89ab-cdef-0123-456789abcdef",
		},
		{
			name: "dashed uuid",
			key:  "01234567-89ab-cdef-0123-456789abcdef",
			want: "01234567-89ab-cdef-0123-456789abcdef",
		},
		{
			name: "uppercase id is normalized",
			key:  "0123456789ABCDEF0123456789ABCDEF",
			want: "01234567-89ab-cdef-0123-456789abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.ResolvePageID(ctx, tt.key)
			if !ok {
				t.Fatal("expected page id to resolve")
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestResolvePageID_EmptyKey(t *testing.T) {
	r := NewResolver(ResolverOptions{})

	if _, ok := r.ResolvePageID(context.Background(), "   "); ok {
		t.Error("expected empty key to not resolve")
	}
}

func TestResolvePageID_SlugLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta name="page-id" content="0123456789abcdef0123456789abcdef"></head></html>`))
	}))
	defer srv.Close()

	r := NewResolver(ResolverOptions{HTTPClient: srv.Client()})

	got, ok := r.ResolvePageID(context.Background(), srv.URL+"/my-custom-page")
	if !ok {
		t.Fatal("expected slug lookup to resolve")
	}
	if got != "01234567-89ab-cdef-0123-456789abcdef" {
		t.Errorf("unexpected page id %s", got)
	}
}

func TestResolvePageID_SlugLookup_NoIDInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	defer srv.Close()

	r := NewResolver(ResolverOptions{HTTPClient: srv.Client()})

	if _, ok := r.ResolvePageID(context.Background(), srv.URL+"/my-custom-page"); ok {
		t.Error("expected lookup without id to not resolve")
	}
}

func TestResolvePageID_SlugLookup_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewResolver(ResolverOptions{HTTPClient: srv.Client()})

	if _, ok := r.ResolvePageID(context.Background(), srv.URL+"/missing"); ok {
		t.Error("expected 404 lookup to not resolve")
	}
}

func TestResolvePageID_SlugLookup_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	r := NewResolver(ResolverOptions{})

	// Failures are swallowed, never propagated
	if _, ok := r.ResolvePageID(context.Background(), srv.URL+"/gone"); ok {
		t.Error("expected unreachable lookup to not resolve")
	}
}

func TestResolvePageID_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("0123456789abcdef0123456789abcdef"))
	}))
	defer srv.Close()

	r := NewResolver(ResolverOptions{HTTPClient: srv.Client(), UserAgent: "folio-core/1.0"})

	if _, ok := r.ResolvePageID(context.Background(), srv.URL+"/page"); !ok {
		t.Fatal("expected lookup to resolve")
	}
	if gotUA != "folio-core/1.0" {
		t.Errorf("expected custom user agent, got %q", gotUA)
	}
}
