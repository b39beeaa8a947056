package drawings

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/construct-iq/drawscan/internal/element"
	"github.com/construct-iq/drawscan/internal/refgraph"
)

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "a101.png")

	s := NewStore()
	s.Register(Sheet{ID: "A-101", Path: path})

	img, err := s.Load("A-101")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("width = %d, want 20", img.Bounds().Dx())
	}

	// Second load is served from cache even if the file disappears.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("A-101"); err != nil {
		t.Errorf("cached load failed: %v", err)
	}

	// Eviction forces a re-read, which now fails.
	s.Evict("A-101")
	if _, err := s.Load("A-101"); err == nil {
		t.Error("expected error after eviction of deleted file")
	}
}

func TestStoreUnknownDrawing(t *testing.T) {
	s := NewStore()
	if _, err := s.Load("missing"); err == nil {
		t.Error("expected error for unregistered drawing")
	}
}

func TestSheetParsedDiscipline(t *testing.T) {
	if got := (Sheet{Discipline: "structural"}).ParsedDiscipline(); got != element.Structural {
		t.Errorf("discipline = %s, want structural", got)
	}
	if got := (Sheet{}).ParsedDiscipline(); got != element.Architectural {
		t.Errorf("default discipline = %s, want architectural", got)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "a101.png")
	writeTestPNG(t, dir, "s201.png")

	manifest := filepath.Join(dir, "set.json")
	content := `[
		{"id": "A-101", "path": "a101.png", "discipline": "architectural"},
		{"id": "S-201", "path": "s201.png", "discipline": "structural"}
	]`
	if err := os.WriteFile(manifest, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	sheets, err := s.LoadManifest(manifest)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(sheets))
	}

	// Relative paths resolve against the manifest directory.
	if _, err := s.Load("S-201"); err != nil {
		t.Errorf("loading manifest sheet failed: %v", err)
	}
}

func TestLoadManifestMissingID(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "set.json")
	if err := os.WriteFile(manifest, []byte(`[{"path": "x.png"}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore().LoadManifest(manifest); err == nil {
		t.Error("expected error for manifest entry without id")
	}
}

func TestLoadIndexNormalizesMarks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marks.json")
	if err := os.WriteFile(path, []byte(`{" a-a ": "S-201", "DETAIL 5": "S-300"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	ix, err := LoadIndex(path)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if got := ix.Lookup("A-A"); got != "S-201" {
		t.Errorf("Lookup(A-A) = %q, want S-201", got)
	}
	if got := ix.Lookup("detail 5"); got != "S-300" {
		t.Errorf("Lookup(detail 5) = %q, want S-300", got)
	}
	if got := ix.Lookup("B-B"); got != refgraph.UnknownTarget {
		t.Errorf("Lookup(B-B) = %q, want unknown", got)
	}
}
