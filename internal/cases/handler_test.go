package cases_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casetrail/casetrail/internal/cases"
	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/pkg/routes"
)

type fakeSystem struct {
	processed []cases.ProcessCommand
	record    *cases.CaseRecord
	findErr   error
}

func (f *fakeSystem) Handler(maxUploadSize int64) *cases.Handler {
	return cases.NewHandler(f, testLogger(), maxUploadSize)
}

func (f *fakeSystem) Process(ctx context.Context, cmd cases.ProcessCommand) (*cases.CaseRecord, error) {
	if strings.TrimSpace(cmd.CaseID) == "" {
		return nil, cases.ErrMissingCaseID
	}
	f.processed = append(f.processed, cmd)
	return f.record, nil
}

func (f *fakeSystem) Find(ctx context.Context, id string) (*cases.CaseRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.record, nil
}

func (f *fakeSystem) List(ctx context.Context, caseID string, limit int) ([]cases.CaseRecord, error) {
	if strings.TrimSpace(caseID) == "" {
		return nil, cases.ErrMissingCaseID
	}
	return []cases.CaseRecord{*f.record}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() *cases.CaseRecord {
	return &cases.CaseRecord{
		ID:      "CASE-1-abc",
		CaseID:  "CASE-1",
		OCRText: "Invoice #123",
		Entities: workflow.Entities{
			"Customer ID": "CUST-9921",
		},
		Summary: workflow.SummaryRecord{
			CaseID:            "CASE-1",
			Summary:           "Summary text.",
			KeyFindings:       []string{"finding"},
			RiskLevel:         workflow.RiskLow,
			RecommendedAction: "Close the case.",
		},
	}
}

func newTestMux(sys *fakeSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(1<<20).Routes())
	return mux
}

func TestProcessMissingCaseID(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cases/process", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if len(sys.processed) != 0 {
		t.Error("no command should be processed without a case id")
	}
}

func TestProcessCaseIDFromQuery(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cases/process?case_id=CASE-1", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if len(sys.processed) != 1 || sys.processed[0].CaseID != "CASE-1" {
		t.Fatalf("processed: got %+v", sys.processed)
	}

	var summary workflow.SummaryRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("response is not a summary record: %v", err)
	}
	if summary.RiskLevel != workflow.RiskLow {
		t.Errorf("risk level: got %s, want LOW", summary.RiskLevel)
	}
}

func TestProcessCaseIDFromBody(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	body := `{"case_id": "CASE-9", "metadata": {"email": {"description": "Reported fraud."}}}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cases/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if len(sys.processed) != 1 {
		t.Fatal("expected one processed command")
	}
	cmd := sys.processed[0]
	if cmd.CaseID != "CASE-9" {
		t.Errorf("case id: got %s, want CASE-9", cmd.CaseID)
	}
	if cmd.Metadata.Email.Description != "Reported fraud." {
		t.Errorf("metadata: got %+v", cmd.Metadata)
	}
}

func TestProcessQueryOverridesBody(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cases/process?case_id=FROM-QUERY", strings.NewReader(`{"case_id": "FROM-BODY"}`))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if sys.processed[0].CaseID != "FROM-QUERY" {
		t.Errorf("case id: got %s, want FROM-QUERY", sys.processed[0].CaseID)
	}
}

func TestProcessMultipart(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("case_id", "CASE-1")
	writer.WriteField("metadata", `{"case_type": "loan_fraud"}`)

	part, err := writer.CreateFormFile("files", "invoice.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-1.4 fake"))

	part, err = writer.CreateFormFile("files", "statement.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-1.4 fake2"))
	writer.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cases/process", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if len(sys.processed) != 1 {
		t.Fatal("expected one processed command")
	}

	cmd := sys.processed[0]
	if len(cmd.Uploads) != 2 {
		t.Fatalf("uploads: got %d, want 2", len(cmd.Uploads))
	}
	if cmd.Uploads[0].Filename != "invoice.pdf" || cmd.Uploads[1].Filename != "statement.pdf" {
		t.Errorf("upload filenames: got %s, %s", cmd.Uploads[0].Filename, cmd.Uploads[1].Filename)
	}
	if string(cmd.Uploads[0].Data) != "%PDF-1.4 fake" {
		t.Errorf("upload data: got %q", cmd.Uploads[0].Data)
	}
	if cmd.Metadata.CaseType != "loan_fraud" {
		t.Errorf("metadata case type: got %s", cmd.Metadata.CaseType)
	}
}

func TestProcessMalformedMultipart(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cases/process?case_id=CASE-1", strings.NewReader("not a multipart body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if len(sys.processed) != 0 {
		t.Error("malformed body should not reach the pipeline")
	}
}

func TestProcessUploadTooLarge(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(64).Routes())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("case_id", "CASE-1")

	part, err := writer.CreateFormFile("files", "big.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(bytes.Repeat([]byte("x"), 1024))
	writer.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cases/process", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rec.Code)
	}
	if len(sys.processed) != 0 {
		t.Error("oversized body should not reach the pipeline")
	}
}

func TestFind(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/cases/CASE-1-abc", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var got cases.CaseRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "CASE-1-abc" || got.CaseID != "CASE-1" {
		t.Errorf("record: got %+v", got)
	}
}

func TestFindNotFound(t *testing.T) {
	sys := &fakeSystem{findErr: cases.ErrNotFound}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/cases/missing", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestListRequiresCaseID(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/cases", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestList(t *testing.T) {
	sys := &fakeSystem{record: testRecord()}
	mux := newTestMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/cases?case_id=CASE-1", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var got []cases.CaseRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].CaseID != "CASE-1" {
		t.Errorf("records: got %+v", got)
	}
}
