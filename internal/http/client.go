package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client wraps HTTP operations with Discografia Brasileira specific
// configuration.
//
// Client provides:
//   - The request headers the site's fragment endpoints require
//   - Streamed audio downloads with a bounded per-file timeout
//   - Progress tracking for downloads
//
// Metadata fetches (Get/GetString) carry no explicit timeout: they are
// bounded only by the transport. Audio downloads take a timeout argument.
//
// Example usage:
//
//	client := NewClient(map[string]string{"User-Agent": "..."})
//
//	// Fetch a tracklist fragment
//	html, err := client.GetString(ctx, tracklistURL)
//
//	// Download audio with a 60s budget
//	err = client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", 60*time.Second, nil)
type Client struct {
	httpClient *http.Client
	headers    map[string]string
}

// NewClient creates a new HTTP client that sends the given headers with
// every request.
func NewClient(headers map[string]string) *Client {
	return &Client{
		httpClient: &http.Client{},
		headers:    headers,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for name, value := range c.headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}
	return req, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching text content like
// the site's HTML fragments.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadFile downloads a file to the specified path in a single attempt.
//
// The content is streamed to a ".part" sibling file and renamed into place
// only after the full body has been written, so an aborted download never
// leaves a file that would satisfy an already-downloaded check.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - timeout: Upper bound for the whole download; zero means no bound
//   - onProgress: Optional callback called with (bytesWritten, totalBytes);
//     pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, timeout time.Duration, onProgress func(written, total int64)) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	partPath := destPath + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		file.Close()
		os.Remove(partPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(partPath)
		return err
	}

	return os.Rename(partPath, destPath)
}
