// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Origins reported in Document.Origin and the load metrics.
const (
	OriginFile = "file"
	OriginURL  = "url"
)

// maxErrorBodySize caps the response excerpt kept in HTTP status errors.
const maxErrorBodySize = 64 * 1024

// Stamp identifies one version of a local file.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

// Document is the raw content of a library export.
type Document struct {
	Data     []byte
	Origin   string
	Location string
	Stamp    Stamp
}

// Loader reads library exports. Stat reports the current stamp of a local
// path; it returns false for URLs and unreadable paths.
type Loader interface {
	Read(ctx context.Context, path string) (Document, error)
	Stat(path string) (Stamp, bool)
}

// SourceLoader reads local files, directories holding games.json and
// http(s) URLs.
type SourceLoader struct {
	client    *http.Client
	userAgent string
}

// NewLoader returns a SourceLoader whose HTTP requests time out after timeout.
func NewLoader(timeout time.Duration, userAgent string) *SourceLoader {
	return &SourceLoader{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// IsURL reports whether path is fetched over HTTP.
func IsURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Read implements Loader.
func (l *SourceLoader) Read(ctx context.Context, path string) (Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Document{}, ErrNoPath
	}
	if IsURL(path) {
		return l.readURL(ctx, path)
	}
	return readFile(path)
}

// Stat implements Loader.
func (l *SourceLoader) Stat(path string) (Stamp, bool) {
	if IsURL(path) {
		return Stamp{}, false
	}
	file, err := resolveFile(strings.TrimSpace(path))
	if err != nil {
		return Stamp{}, false
	}
	info, err := os.Stat(file)
	if err != nil {
		return Stamp{}, false
	}
	return Stamp{ModTime: info.ModTime(), Size: info.Size()}, true
}

func (l *SourceLoader) readURL(ctx context.Context, url string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Document{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json, application/x-ndjson;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("%w: %d from %s: %s", ErrHTTPStatus, resp.StatusCode, url, readBodyForError(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("read body from %s: %w", url, err)
	}
	return Document{Data: data, Origin: OriginURL, Location: url}, nil
}

// readBodyForError returns at most maxErrorBodySize bytes of body.
func readBodyForError(body io.Reader) string {
	excerpt, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return fmt.Sprintf("(failed to read body: %v)", err)
	}
	return strings.TrimSpace(string(excerpt))
}

func readFile(path string) (Document, error) {
	file, err := resolveFile(path)
	if err != nil {
		return Document{}, err
	}
	info, err := os.Stat(file)
	if err != nil {
		return Document{}, fmt.Errorf("stat %s: %w", file, err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", file, err)
	}
	return Document{
		Data:     data,
		Origin:   OriginFile,
		Location: file,
		Stamp:    Stamp{ModTime: info.ModTime(), Size: info.Size()},
	}, nil
}

// resolveFile maps a configured path to the file to read.
func resolveFile(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	games := filepath.Join(path, "games.json")
	if _, err := os.Stat(games); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingGamesJSON, path)
	}
	return games, nil
}
