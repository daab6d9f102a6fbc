// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package wikipedia

import (
	"bufio"
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/keepfeed/internal/logging"
	"github.com/tomtom215/keepfeed/internal/metrics"
)

// PackDirName is the directory created under the pack base directory.
const PackDirName = "wikipedia_game_packs"

const packExt = ".txt"

//go:embed packs/*.txt
var embeddedPacks embed.FS

// Pack is a named list of article titles.
type Pack struct {
	Name   string
	Titles []string
}

// DefaultPacks returns the embedded packs sorted by name.
func DefaultPacks() ([]Pack, error) {
	entries, err := fs.ReadDir(embeddedPacks, "packs")
	if err != nil {
		return nil, fmt.Errorf("read embedded packs: %w", err)
	}
	out := make([]Pack, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), packExt) {
			continue
		}
		data, err := embeddedPacks.ReadFile(path.Join("packs", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read embedded pack %s: %w", e.Name(), err)
		}
		out = append(out, Pack{
			Name:   strings.TrimSuffix(e.Name(), packExt),
			Titles: ParsePack(bytes.NewReader(data)),
		})
	}
	return out, nil
}

// ParsePack reads one title per line, skipping blank and "##" lines.
func ParsePack(r io.Reader) []string {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "##") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// SanitizeSubfolder strips the characters <>:"|?*\/ and trims surrounding
// spaces and dots.
func SanitizeSubfolder(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"|?*\/`, r) {
			return -1
		}
		return r
	}, name)
	return strings.Trim(cleaned, " .")
}

// DisplayName turns a pack file name into a header title: "music_genres"
// becomes "Music genres".
func DisplayName(pack string) string {
	s := strings.ReplaceAll(pack, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// State is a step of the pack directory state machine.
type State string

const (
	StateUninitialized State = "uninitialized"
	StatePacksExist    State = "packs_exist"
	StateGenerate      State = "generate"
	StateRefresh       State = "refresh"
	StateReady         State = "ready"
)

// EnsureOptions selects the pack directory and which live lists to write.
type EnsureOptions struct {
	Subfolder       string
	RefreshTrending bool
	RefreshFeatured bool
	RefreshPopular  bool
}

func (o EnsureOptions) refreshKinds() []Kind {
	var kinds []Kind
	if o.RefreshTrending {
		kinds = append(kinds, KindTrending)
	}
	if o.RefreshFeatured {
		kinds = append(kinds, KindFeatured)
	}
	if o.RefreshPopular {
		kinds = append(kinds, KindPopular)
	}
	return kinds
}

// EnsureReport describes what one Ensure call did.
type EnsureReport struct {
	Dir string `json:"dir"`
	// AlreadyReady is set when the directory was initialized earlier in
	// this process and nothing ran.
	AlreadyReady bool     `json:"already_ready"`
	States       []State  `json:"states"`
	Generated    []string `json:"generated,omitempty"`
	Refreshed    []string `json:"refreshed,omitempty"`
}

// ArticleSource supplies live article lists. *Articles implements it.
type ArticleSource interface {
	Get(ctx context.Context, kind Kind) []string
}

// PackManager owns the pack directories under one base directory.
//
// Ensure runs the initialization state machine at most once per directory
// per process. Master lists are cached per directory and dropped whenever
// the manager writes a pack there.
type PackManager struct {
	base     string
	articles ArticleSource
	logger   zerolog.Logger
	now      func() time.Time

	mu          sync.Mutex
	initialized map[string]struct{}

	masterMu  sync.RWMutex
	master    map[string][]string
	// masterGen increments on every invalidation so a read that raced a
	// write does not cache its result.
	masterGen map[string]uint64

	group singleflight.Group
}

// NewPackManager returns a manager rooted at base. articles may be nil when
// no refresh is ever requested.
func NewPackManager(base string, articles ArticleSource) *PackManager {
	return &PackManager{
		base:        base,
		articles:    articles,
		logger:      logging.WithComponent("wikipedia-packs"),
		now:         time.Now,
		initialized: make(map[string]struct{}),
		master:      make(map[string][]string),
		masterGen:   make(map[string]uint64),
	}
}

// PackDir returns <base>/wikipedia_game_packs[/<sanitized subfolder>].
func (m *PackManager) PackDir(subfolder string) string {
	dir := filepath.Join(m.base, PackDirName)
	if s := SanitizeSubfolder(subfolder); s != "" {
		dir = filepath.Join(dir, s)
	}
	return dir
}

// IsReady reports whether Ensure completed for dir.
func (m *PackManager) IsReady(dir string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.initialized[dir]
	return ok
}

// Ensure prepares the pack directory for opts. The first successful call
// for a directory creates it, writes the default packs if it holds none,
// and writes the requested live lists concurrently. Later calls for the
// same directory return immediately, whatever their options.
func (m *PackManager) Ensure(ctx context.Context, opts EnsureOptions) (EnsureReport, error) {
	dir := m.PackDir(opts.Subfolder)
	if m.IsReady(dir) {
		return EnsureReport{Dir: dir, AlreadyReady: true, States: []State{StateReady}}, nil
	}

	v, err, _ := m.group.Do("ensure:"+dir, func() (any, error) {
		if m.IsReady(dir) {
			return EnsureReport{Dir: dir, AlreadyReady: true, States: []State{StateReady}}, nil
		}
		return m.initialize(ctx, dir, opts)
	})
	if err != nil {
		return EnsureReport{Dir: dir, States: []State{StateUninitialized}}, err
	}
	return v.(EnsureReport), nil
}

func (m *PackManager) initialize(ctx context.Context, dir string, opts EnsureOptions) (EnsureReport, error) {
	report := EnsureReport{Dir: dir, States: []State{StateUninitialized}}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, fmt.Errorf("create pack directory: %w", err)
	}

	existing, err := listPackFiles(dir)
	if err != nil {
		return report, err
	}
	if len(existing) > 0 {
		report.States = append(report.States, StatePacksExist)
	} else {
		report.States = append(report.States, StateGenerate)
		packs, err := DefaultPacks()
		if err != nil {
			return report, err
		}
		for _, p := range packs {
			header := []string{
				"## Wikipedia Game pack: " + DisplayName(p.Name),
				"## One article title per line. Lines starting with ## are ignored.",
			}
			if err := m.WritePack(dir, p.Name, header, p.Titles); err != nil {
				return report, err
			}
			report.Generated = append(report.Generated, p.Name)
		}
		m.logger.Info().Str("dir", dir).Int("packs", len(packs)).Msg("Default article packs generated")
	}

	if kinds := opts.refreshKinds(); len(kinds) > 0 && m.articles != nil {
		report.States = append(report.States, StateRefresh)
		refreshed, err := m.refresh(ctx, dir, kinds)
		if err != nil {
			return report, err
		}
		report.Refreshed = refreshed
	}

	m.mu.Lock()
	m.initialized[dir] = struct{}{}
	m.mu.Unlock()

	report.States = append(report.States, StateReady)
	m.logger.Info().Str("dir", dir).Strs("refreshed", report.Refreshed).Msg("Article pack directory ready")
	return report, nil
}

// refresh writes each non-empty live list as a pack, concurrently.
func (m *PackManager) refresh(ctx context.Context, dir string, kinds []Kind) ([]string, error) {
	var (
		mu        sync.Mutex
		refreshed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			titles := m.articles.Get(gctx, kind)
			if len(titles) == 0 {
				m.logger.Warn().Str("kind", string(kind)).Msg("No articles fetched, pack not written")
				return nil
			}
			header := []string{
				"## Wikipedia Game pack: " + DisplayName(string(kind)) + " articles",
				"## Fetched " + m.now().UTC().Format(time.RFC3339),
			}
			if err := m.WritePack(dir, string(kind), header, titles); err != nil {
				return err
			}
			mu.Lock()
			refreshed = append(refreshed, string(kind))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(refreshed)
	return refreshed, nil
}

// WritePack atomically writes <dir>/<name>.txt and drops the cached master
// list for dir.
func (m *PackManager) WritePack(dir, name string, header, titles []string) error {
	var buf bytes.Buffer
	for _, h := range header {
		buf.WriteString(h)
		buf.WriteByte('\n')
	}
	for _, t := range titles {
		buf.WriteString(t)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create pack %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write pack %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close pack %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name+packExt)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename pack %s: %w", name, err)
	}

	metrics.PackWrites.WithLabelValues(name).Inc()
	m.InvalidateMaster(dir)
	return nil
}

// InvalidateMaster drops the cached master list for dir.
func (m *PackManager) InvalidateMaster(dir string) {
	m.masterMu.Lock()
	delete(m.master, dir)
	m.masterGen[dir]++
	m.masterMu.Unlock()
}

// MasterArticles returns every title in dir's packs, read in file name
// order, with meta titles removed and duplicates dropped (first seen wins).
// The returned slice is shared and must not be modified.
func (m *PackManager) MasterArticles(dir string) ([]string, error) {
	m.masterMu.RLock()
	cached, ok := m.master[dir]
	m.masterMu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := m.group.Do("master:"+dir, func() (any, error) {
		m.masterMu.RLock()
		gen := m.masterGen[dir]
		m.masterMu.RUnlock()

		files, err := listPackFiles(dir)
		if err != nil {
			return nil, err
		}
		set := newTitleSet(0)
		for _, name := range files {
			f, err := os.Open(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("open pack %s: %w", name, err)
			}
			for _, t := range ParsePack(f) {
				set.add(t)
			}
			f.Close()
		}
		titles := set.titles()

		m.masterMu.Lock()
		if m.masterGen[dir] == gen {
			m.master[dir] = titles
		}
		m.masterMu.Unlock()
		return titles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// PackInfo summarizes one pack file.
type PackInfo struct {
	Name   string `json:"name"`
	Titles int    `json:"titles"`
}

// ListPacks returns the packs in dir in file name order.
func (m *PackManager) ListPacks(dir string) ([]PackInfo, error) {
	files, err := listPackFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]PackInfo, 0, len(files))
	for _, name := range files {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("open pack %s: %w", name, err)
		}
		out = append(out, PackInfo{Name: strings.TrimSuffix(name, packExt), Titles: len(ParsePack(f))})
		f.Close()
	}
	return out, nil
}

// listPackFiles returns the *.txt file names in dir, sorted. A missing
// directory has no packs.
func listPackFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pack directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), packExt) && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
