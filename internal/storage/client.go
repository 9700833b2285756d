package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client wraps HTTP access to the workspace object storage.
//
// Client provides:
//   - Bearer-token authentication against the workspace API
//   - Resolution of relative object paths against the workspace base URL
//   - Timeout handling
//   - File download with progress tracking
//   - Object size retrieval via HEAD requests
//
// Example usage:
//
//	client := NewClient("https://workspace.example.com", token)
//
//	// Fetch the meetings manifest
//	data, err := client.Get(ctx, "/api/meetings")
//
//	// Download a recording with progress
//	err = client.DownloadFile(ctx, rec.SourceURL, rec.Path, func(written, total int64) {
//	    percent := float64(written) / float64(total) * 100
//	    fmt.Printf("%.1f%%\n", percent)
//	})
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new workspace storage client.
//
// The baseURL is the workspace root (e.g. "https://workspace.example.com");
// relative object paths are resolved against it. The token is sent as a
// Bearer credential on every request; pass an empty string for workspaces
// that do not require authentication.
//
// The client is configured with a 60 second timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
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

// resolveURL turns a relative object path into an absolute workspace URL.
// Absolute URLs pass through unchanged so recordings hosted on external
// object storage keep working.
func (c *Client) resolveURL(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid object URL %q: %w", ref, err)
	}
	if u.IsAbs() {
		return ref, nil
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("relative object path %q requires a workspace URL", ref)
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref, nil
}

// newRequest builds a request with the Bearer credential applied.
func (c *Client) newRequest(ctx context.Context, method, ref string) (*http.Request, error) {
	fullURL, err := c.resolveURL(ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// The ref may be an absolute URL or a path relative to the workspace base.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
//
// Example:
//
//	data, err := client.Get(ctx, "/api/meetings")
func (c *Client) Get(ctx context.Context, ref string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, ref)
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

// GetFileSize returns the size of an object at the given ref via HEAD request.
//
// This is useful for:
//   - Pre-calculating total download size
//   - Checking if a local file matches the expected size
//
// Returns an error if:
//   - The request fails
//   - The server doesn't return a Content-Length header
//
// Example:
//
//	size, err := client.GetFileSize(ctx, rec.SourceURL)
//	fmt.Printf("Object is %d bytes\n", size)
func (c *Client) GetFileSize(ctx context.Context, ref string) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodHead, ref)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", ref)
	}

	return resp.ContentLength, nil
}

// DownloadFile downloads an object to the specified path with optional
// progress callback.
//
// The file is created (or truncated if it exists) and the content is streamed
// directly to disk, avoiding loading the entire object into memory.
//
// Parameters:
//   - ctx: Context for cancellation
//   - ref: Object URL or workspace-relative path to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes)
//     Pass nil to disable progress tracking
//
// Example:
//
//	err := client.DownloadFile(ctx, rec.SourceURL, rec.Path, func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) DownloadFile(ctx context.Context, ref, destPath string, onProgress func(written, total int64)) error {
	req, err := c.newRequest(ctx, http.MethodGet, ref)
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

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}
