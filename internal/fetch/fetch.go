// Package fetch downloads paper PDFs from arXiv IDs, direct URLs, or local
// paths. Responses that turn out to be HTML landing pages are resolved to the
// real PDF via their citation_pdf_url meta tag.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source identifies a paper to download. Exactly one field should be set;
// they are checked in order ArxivID, URL, Path.
type Source struct {
	ArxivID string
	URL     string
	Path    string
}

func (s Source) String() string {
	switch {
	case s.ArxivID != "":
		return "arxiv:" + s.ArxivID
	case s.URL != "":
		return s.URL
	default:
		return s.Path
	}
}

// Client downloads paper PDFs with a size cap.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewClient(timeout time.Duration, maxBytes int64) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

var pdfMagic = []byte("%PDF-")

// Fetch resolves a source to raw PDF bytes.
func (c *Client) Fetch(ctx context.Context, src Source) ([]byte, error) {
	switch {
	case src.ArxivID != "":
		return c.fetchURL(ctx, arxivPDFURL(src.ArxivID), false)
	case src.URL != "":
		return c.fetchURL(ctx, src.URL, true)
	case src.Path != "":
		return readLocal(src.Path, c.maxBytes)
	default:
		return nil, fmt.Errorf("empty paper source")
	}
}

func arxivPDFURL(id string) string {
	id = strings.TrimPrefix(strings.TrimSpace(id), "arXiv:")
	return "https://arxiv.org/pdf/" + id + ".pdf"
}

// fetchURL downloads a URL, following one HTML landing page hop when the
// response is not a PDF.
func (c *Client) fetchURL(ctx context.Context, rawURL string, followHTML bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "papertrans/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("download %s: exceeds %d byte limit", rawURL, c.maxBytes)
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return data, nil
	}

	if followHTML && looksLikeHTML(data) {
		pdfURL, ok := findPDFLink(data, resp.Request.URL)
		if ok {
			return c.fetchURL(ctx, pdfURL, false)
		}
		return nil, fmt.Errorf("page at %s has no citation_pdf_url link", rawURL)
	}
	return nil, fmt.Errorf("response from %s is not a PDF", rawURL)
}

func looksLikeHTML(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data[:min(len(data), 512)]))
	return bytes.Contains(head, []byte("<html")) || bytes.HasPrefix(head, []byte("<!doctype"))
}

func readLocal(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("file %s exceeds %d byte limit", path, maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("file %s is not a PDF", path)
	}
	return data, nil
}
