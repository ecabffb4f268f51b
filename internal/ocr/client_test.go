package ocr_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/casetrail/casetrail/internal/ocr"
)

func newTestClient(t *testing.T, endpoint string) *ocr.Client {
	t.Helper()

	cfg := ocr.Config{
		Endpoint: endpoint,
		Key:      "test-key",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	cfg.PollInterval = "10ms"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ocr.New(&cfg, logger)
}

func analyzeResult(lines ...[]string) map[string]any {
	pages := make([]map[string]any, 0, len(lines))
	for _, page := range lines {
		contents := make([]map[string]string, 0, len(page))
		for _, line := range page {
			contents = append(contents, map[string]string{"content": line})
		}
		pages = append(pages, map[string]any{"lines": contents})
	}
	return map[string]any{"pages": pages}
}

func TestExtract(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Error("missing subscription key header")
		}
		if r.URL.Query().Get("api-version") == "" {
			t.Error("missing api-version query parameter")
		}

		w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if polls.Add(1) < 3 {
			json.NewEncoder(w).Encode(map[string]any{"status": "running"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":        "succeeded",
			"analyzeResult": analyzeResult([]string{"Invoice #123", "Amount: 50000"}, []string{"Page two"}),
		})
	})

	client := newTestClient(t, srv.URL)

	got, err := client.Extract(context.Background(), []byte("pdf-bytes"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "Invoice #123\nAmount: 50000\nPage two"
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
	if polls.Load() < 3 {
		t.Errorf("polls: got %d, want at least 3", polls.Load())
	}
}

func TestExtractAnalysisFailed(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-2")
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /operations/op-2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "failed",
			"error":  map[string]string{"code": "InvalidContent", "message": "corrupt document"},
		})
	})

	client := newTestClient(t, srv.URL)

	_, err := client.Extract(context.Background(), []byte("bad"))
	if !errors.Is(err, ocr.ErrAnalyzeFailed) {
		t.Fatalf("error = %v, want ErrAnalyzeFailed", err)
	}
}

func TestExtractRejectedSubmission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": "401"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Extract(context.Background(), []byte("doc"))
	if !errors.Is(err, ocr.ErrAnalyzeFailed) {
		t.Fatalf("error = %v, want ErrAnalyzeFailed", err)
	}
}

func TestExtractMissingOperationLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Extract(context.Background(), []byte("doc"))
	if !errors.Is(err, ocr.ErrMissingOperation) {
		t.Fatalf("error = %v, want ErrMissingOperation", err)
	}
}

func TestExtractContextCancelled(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-3")
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /operations/op-3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "running"})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, srv.URL)

	_, err := client.Extract(ctx, []byte("doc"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
