package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const downloadTimeout = 60 * time.Second

// Fetcher downloads remote PDFs so they can run through the same pipeline
// as local files.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: downloadTimeout},
	}
}

// IsURL reports whether the input names a remote document rather than a
// local file path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// GetPDF fetches rawURL and returns the body after checking it actually
// looks like a PDF.
func (f *Fetcher) GetPDF(rawURL string) ([]byte, error) {
	resp, err := f.client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch PDF, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if !strings.HasPrefix(string(bodyBytes), "%PDF-") {
		return nil, fmt.Errorf("response from %s is not a PDF", rawURL)
	}
	return bodyBytes, nil
}

// Download fetches rawURL into destDir and returns the local path.
// The filename comes from the URL path, falling back to download.pdf.
func (f *Fetcher) Download(rawURL, destDir string) (string, error) {
	data, err := f.GetPDF(rawURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	localPath := filepath.Join(destDir, fileNameFromURL(rawURL))
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write downloaded PDF: %w", err)
	}
	return localPath, nil
}

func fileNameFromURL(rawURL string) string {
	name := "download.pdf"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			name = base
		}
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
