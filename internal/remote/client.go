// Package remote downloads the translation catalog, translation archives
// and Strong's number archives from the content server.
package remote

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when the server has no such resource.
	ErrNotFound = errors.New("remote resource not found")
	// ErrDisabled is returned when no base URL is configured.
	ErrDisabled = errors.New("remote downloads are disabled: no base URL configured")
)

const userAgent = "Joshua/1.0"

// Client talks to the content server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *ArchiveCache
}

// NewClient creates a client for baseURL. Archives are kept in cache when it
// is not nil, otherwise they are written to temporary files and removed
// after parsing.
func NewClient(baseURL string, timeout time.Duration, cache *ArchiveCache) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
	}
}

// Enabled reports whether a base URL is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status: %d", path, resp.StatusCode)
	}
	return resp, nil
}

// fetchArchive downloads the archive at path, reporting 0..99 on progress,
// and opens it. The returned cleanup must be called once the archive is read.
func (c *Client) fetchArchive(ctx context.Context, path string, expectedSize int64, progress chan<- int) (*zip.ReadCloser, func(), error) {
	url := c.baseURL + path
	if c.cache != nil {
		if cached, ok := c.cache.Lookup(url); ok {
			reader, err := zip.OpenReader(cached)
			if err == nil {
				notify(progress, 99)
				return reader, func() { reader.Close() }, nil
			}
			// Corrupt leftovers are downloaded again.
			_ = c.cache.Remove(url)
		}
	}

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	if total <= 0 {
		total = expectedSize
	}
	body := newProgressReader(resp.Body, total, progress)

	var archivePath string
	removeFile := func() {}
	if c.cache != nil {
		archivePath, err = c.cache.Store(url, body)
		if err != nil {
			return nil, nil, fmt.Errorf("store archive: %w", err)
		}
	} else {
		archivePath, err = writeTempFile(body)
		if err != nil {
			return nil, nil, fmt.Errorf("store archive: %w", err)
		}
		removeFile = func() { os.Remove(archivePath) }
	}
	notify(progress, 99)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		removeFile()
		if c.cache != nil {
			_ = c.cache.Remove(url)
		}
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	return reader, func() {
		reader.Close()
		removeFile()
	}, nil
}

func writeTempFile(r io.Reader) (string, error) {
	tmpFile, err := os.CreateTemp("", "joshua_archive_")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, r); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	return tmpFile.Name(), nil
}

func decodeZipEntry(file *zip.File, v any) error {
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", file.Name, err)
	}
	return nil
}

// notify sends value without blocking; a slow receiver misses updates.
func notify(progress chan<- int, value int) {
	if progress == nil {
		return
	}
	select {
	case progress <- value:
	default:
	}
}

// progressReader reports the share of total bytes read as 0..99.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	last     int
	progress chan<- int
}

func newProgressReader(r io.Reader, total int64, progress chan<- int) *progressReader {
	notify(progress, 0)
	return &progressReader{r: r, total: total, last: 0, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 99 {
			pct = 99
		}
		if pct > p.last {
			p.last = pct
			notify(p.progress, pct)
		}
	}
	return n, err
}
