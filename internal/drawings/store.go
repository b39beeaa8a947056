// Package drawings manages the set of drawing sheets under analysis: sheet
// registration, cached image decoding, and the callout-mark index that maps
// reference marks to drawing ids.
package drawings

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/construct-iq/drawscan/internal/element"
	"github.com/construct-iq/drawscan/internal/refgraph"
)

// Sheet describes one drawing in a set.
type Sheet struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	Discipline string `json:"discipline,omitempty"`
}

// ParsedDiscipline returns the sheet's discipline, defaulting to
// architectural.
func (s Sheet) ParsedDiscipline() element.Discipline {
	return element.ParseDiscipline(s.Discipline)
}

// Store holds registered sheets and caches their decoded images so a sheet
// referenced by several drawings is decoded once.
//
// Store is safe for concurrent use. Cached images stay in memory until
// Evict or Clear.
type Store struct {
	mu     sync.RWMutex
	sheets map[string]Sheet
	images map[string]image.Image
}

func NewStore() *Store {
	return &Store{
		sheets: make(map[string]Sheet),
		images: make(map[string]image.Image),
	}
}

// Register adds a sheet to the store, replacing any sheet with the same id.
// A registered sheet's image is decoded lazily on first Load.
func (s *Store) Register(sheet Sheet) {
	s.mu.Lock()
	s.sheets[sheet.ID] = sheet
	delete(s.images, sheet.ID)
	s.mu.Unlock()
}

// Sheets returns all registered sheets in registration-independent map
// order; callers needing a stable order sort by id.
func (s *Store) Sheets() []Sheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sheet, 0, len(s.sheets))
	for _, sheet := range s.sheets {
		out = append(out, sheet)
	}
	return out
}

// Load returns the decoded image for a registered sheet, reading from disk
// on first use and from cache afterwards.
func (s *Store) Load(id string) (image.Image, error) {
	s.mu.RLock()
	if img, ok := s.images[id]; ok {
		s.mu.RUnlock()
		return img, nil
	}
	sheet, ok := s.sheets[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown drawing %q", id)
	}

	f, err := os.Open(sheet.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drawing %s: %w", id, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode drawing %s: %w", id, err)
	}

	s.mu.Lock()
	s.images[id] = img
	s.mu.Unlock()
	return img, nil
}

// Evict drops a sheet's cached image; the sheet stays registered.
func (s *Store) Evict(id string) {
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()
}

// Clear drops all cached images, keeping registrations.
func (s *Store) Clear() {
	s.mu.Lock()
	s.images = make(map[string]image.Image)
	s.mu.Unlock()
}

// LoadManifest reads a JSON sheet manifest and registers every sheet.
// Relative sheet paths are resolved against the manifest's directory. The
// manifest is a JSON array of {id, path, discipline} objects.
func (s *Store) LoadManifest(path string) ([]Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var sheets []Sheet
	if err := json.Unmarshal(data, &sheets); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	dir := filepath.Dir(path)
	for i := range sheets {
		if sheets[i].ID == "" {
			return nil, fmt.Errorf("manifest entry %d has no id", i)
		}
		if !filepath.IsAbs(sheets[i].Path) {
			sheets[i].Path = filepath.Join(dir, sheets[i].Path)
		}
		s.Register(sheets[i])
	}
	return sheets, nil
}

// LoadIndex reads a JSON callout-mark index: an object mapping reference
// marks ("A-A", "DETAIL 5") to drawing ids.
func LoadIndex(path string) (refgraph.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}

	index := make(refgraph.Index, len(raw))
	for mark, id := range raw {
		index[strings.ToUpper(strings.TrimSpace(mark))] = id
	}
	return index, nil
}
