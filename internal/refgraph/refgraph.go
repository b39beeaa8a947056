// Package refgraph discovers cross-drawing reference marks (section cuts,
// detail callouts, elevation and plan marks) and maintains the directed
// reference graph between drawing identifiers that the fusion engine
// traverses.
//
// Two independent detectors contribute references: a regex scanner over the
// drawing's extracted text and a template matcher over the rendered image.
// Their outputs are concatenated, validated, and inserted into a Graph owned
// by the caller, so no reference state leaks between unrelated pipelines.
package refgraph

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/construct-iq/drawscan/internal/geometry"
)

// ReferenceType categorizes what kind of drawing a mark points at.
type ReferenceType string

const (
	Section       ReferenceType = "section"
	Detail        ReferenceType = "detail"
	Elevation     ReferenceType = "elevation"
	Plan          ReferenceType = "plan"
	Schedule      ReferenceType = "schedule"
	Specification ReferenceType = "specification"
	Note          ReferenceType = "note"
)

// UnknownTarget marks a reference whose target drawing could not be
// resolved. Unresolved references are kept, not dropped: the mark itself is
// still evidence that a related drawing exists.
const UnknownTarget = "unknown"

// Reference is a directed edge from the drawing where a mark was found to
// the drawing the mark points at.
type Reference struct {
	SourceDrawingID string          `json:"source_drawing_id"`
	TargetDrawingID string          `json:"target_drawing_id"`
	Type            ReferenceType   `json:"reference_type"`
	Mark            string          `json:"reference_mark"`
	BBox            geometry.Bounds `json:"bbox"`
	Confidence      float64         `json:"confidence"`
	Description     string          `json:"description,omitempty"`
}

// Referrer is one incoming edge in the reverse adjacency index.
type Referrer struct {
	SourceDrawingID string    `json:"source_drawing_id"`
	Reference       Reference `json:"reference"`
}

// Graph stores validated references keyed by source drawing, plus a reverse
// index from target to referrers. It is safe for concurrent use, so batch
// callers can share one graph across per-drawing workers.
type Graph struct {
	mu        sync.RWMutex
	bySource  map[string][]Reference
	referrers map[string][]Referrer
}

// NewGraph returns an empty reference graph.
func NewGraph() *Graph {
	return &Graph{
		bySource:  make(map[string][]Reference),
		referrers: make(map[string][]Referrer),
	}
}

// Insert records references found on one drawing, replacing any earlier
// entry for the same drawing and rebuilding its reverse edges.
func (g *Graph) Insert(drawingID string, refs []Reference) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeReverseEdges(drawingID)
	g.bySource[drawingID] = append([]Reference(nil), refs...)
	for _, ref := range refs {
		g.referrers[ref.TargetDrawingID] = append(g.referrers[ref.TargetDrawingID], Referrer{
			SourceDrawingID: drawingID,
			Reference:       ref,
		})
	}
}

func (g *Graph) removeReverseEdges(drawingID string) {
	for _, old := range g.bySource[drawingID] {
		edges := g.referrers[old.TargetDrawingID]
		kept := edges[:0]
		for _, e := range edges {
			if e.SourceDrawingID != drawingID {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(g.referrers, old.TargetDrawingID)
		} else {
			g.referrers[old.TargetDrawingID] = kept
		}
	}
}

// ReferencesFrom returns the outgoing references of a drawing.
func (g *Graph) ReferencesFrom(drawingID string) []Reference {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Reference(nil), g.bySource[drawingID]...)
}

// ReferenceDrawings returns the unique resolved target drawing ids a
// drawing points at, sorted for determinism. Unresolved targets are
// excluded.
func (g *Graph) ReferenceDrawings(drawingID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, ref := range g.bySource[drawingID] {
		if ref.TargetDrawingID == UnknownTarget || ref.TargetDrawingID == "" {
			continue
		}
		seen[ref.TargetDrawingID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Referrers returns the drawings whose references point at target.
func (g *Graph) Referrers(target string) []Referrer {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Referrer(nil), g.referrers[target]...)
}

// Stats summarizes the graph contents.
type Stats struct {
	TotalDrawings   int                   `json:"total_drawings"`
	TotalReferences int                   `json:"total_references"`
	ReferenceTypes  map[ReferenceType]int `json:"reference_types"`
	ReverseIndexLen int                   `json:"reverse_index_len"`
}

// Stats counts drawings, references and per-type totals.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := Stats{
		TotalDrawings:  len(g.bySource),
		ReferenceTypes: make(map[ReferenceType]int),
	}
	for _, refs := range g.bySource {
		s.TotalReferences += len(refs)
		for _, ref := range refs {
			s.ReferenceTypes[ref.Type]++
		}
	}
	s.ReverseIndexLen = len(g.referrers)
	return s
}

// ExportJSON serializes the graph keyed by source drawing id, the format
// consumed by external persistence.
func (g *Graph) ExportJSON() ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return json.MarshalIndent(g.bySource, "", "  ")
}
