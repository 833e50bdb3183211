package profiles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLookupNameReturnsFirstEntry(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Notch"},{"name":"Older","changedToAt":1}]`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL+"/user/profiles/{uuid}/names", time.Second)
	name, err := client.LookupName(context.Background(), "069a79f4-44e9-4726-a5be-fca90e38aaf5")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if name != "Notch" {
		t.Fatalf("name = %q, want Notch", name)
	}
	if gotPath != "/user/profiles/069a79f444e94726a5befca90e38aaf5/names" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestLookupNameFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		noName bool
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "no content", status: http.StatusNoContent},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "bad json", status: http.StatusOK, body: `{"name":`},
		{name: "object not array", status: http.StatusOK, body: `{"name":"x"}`},
		{name: "empty array", status: http.StatusOK, body: `[]`, noName: true},
		{name: "missing name", status: http.StatusOK, body: `[{"id":"x"}]`, noName: true},
		{name: "blank name", status: http.StatusOK, body: `[{"name":"  "}]`, noName: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			name, err := NewHTTPClient(srv.URL+"/{uuid}", time.Second).LookupName(context.Background(), "abc")
			if err == nil {
				t.Fatalf("expected error, got name %q", name)
			}
			if tt.noName != errors.Is(err, ErrNoName) {
				t.Fatalf("errors.Is(err, ErrNoName) = %v, want %v (err %v)", !tt.noName, tt.noName, err)
			}
		})
	}
}

func TestLookupNameTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewHTTPClient(url+"/{uuid}", time.Second).LookupName(context.Background(), "abc"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestLookupNameHonorsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewHTTPClient(srv.URL+"/{uuid}", time.Minute).LookupName(ctx, "abc")
	if err == nil || !strings.Contains(err.Error(), "profile request") {
		t.Fatalf("expected request error, got %v", err)
	}
}

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"069a79f4-44e9-4726-a5be-fca90e38aaf5": "069a79f444e94726a5befca90e38aaf5",
		"069A79F444E94726A5BEFCA90E38AAF5":     "069a79f444e94726a5befca90e38aaf5",
		"Steve":                                "Steve",
	}
	for in, want := range tests {
		if got := NormalizeID(in); got != want {
			t.Fatalf("NormalizeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewHTTPClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient("", 0)
	if c.URLTemplate != DefaultURLTemplate {
		t.Fatalf("template = %q", c.URLTemplate)
	}
	if c.HTTP.Timeout <= 0 {
		t.Fatal("expected a request timeout")
	}
}
