package fetcher

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const fakePDF = "%PDF-1.4\n1 0 obj\n<< >>\nendobj\ntrailer\n%%EOF\n"

func TestIsURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/report.pdf", true},
		{"http://example.com/report.pdf", true},
		{"report.pdf", false},
		{"/tmp/report.pdf", false},
		{"ftp://example.com/report.pdf", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.input); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGetPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fakePDF))
	}))
	defer srv.Close()

	f := NewFetcher()
	data, err := f.GetPDF(srv.URL + "/report.pdf")
	if err != nil {
		t.Fatalf("GetPDF returned error: %v", err)
	}
	if string(data) != fakePDF {
		t.Errorf("unexpected body: %q", data)
	}
}

func TestGetPDFRejectsNonPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a pdf</html>"))
	}))
	defer srv.Close()

	f := NewFetcher()
	if _, err := f.GetPDF(srv.URL); err == nil {
		t.Error("expected error for non-PDF response")
	}
}

func TestGetPDFStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher()
	if _, err := f.GetPDF(srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fakePDF))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	f := NewFetcher()
	localPath, err := f.Download(srv.URL+"/annual-report.pdf", destDir)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	if filepath.Base(localPath) != "annual-report.pdf" {
		t.Errorf("expected filename annual-report.pdf, got %s", filepath.Base(localPath))
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(data) != fakePDF {
		t.Errorf("downloaded content mismatch")
	}
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/docs/manual.pdf", "manual.pdf"},
		{"https://example.com/download?id=3", "download.pdf"},
		{"https://example.com/", "download.pdf"},
		{"https://example.com/report", "report.pdf"},
	}
	for _, tt := range tests {
		if got := fileNameFromURL(tt.url); got != tt.want {
			t.Errorf("fileNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
