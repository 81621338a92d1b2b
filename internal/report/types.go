package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/pitchgrid/pitchgrid/internal/page"
)

// Report collects pitch analysis results across a batch of page images
type Report struct {
	// GeneratedAt is the timestamp of the last recorded analysis
	GeneratedAt time.Time `json:"generated_at"`

	// Pages maps image paths to their analysis results
	Pages map[string]*PageResult `json:"pages"`

	// Version is the report file format version
	Version int `json:"version"`
}

// PageResult holds the analysis outcome for a single page image
type PageResult struct {
	// ID uniquely identifies this result entry
	ID string `json:"id"`

	// Path is the image file the result was computed from
	Path string `json:"path"`

	// Hash is the SHA256 of the image file, used for change detection
	Hash string `json:"hash"`

	// AnalyzedAt is when the analysis ran
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Blocks are the per-block outcomes in page order
	Blocks []BlockResult `json:"blocks"`
}

// BlockResult summarizes one text block
type BlockResult struct {
	// Decision is the block's aggregated spacing decision
	Decision string `json:"decision"`

	// Pitch is the block pitch in pixels, zero for proportional blocks
	Pitch float64 `json:"pitch,omitempty"`

	// Rows are the per-row outcomes in reading order
	Rows []RowResult `json:"rows"`
}

// RowResult summarizes one text row
type RowResult struct {
	// Decision is the row's spacing decision
	Decision string `json:"decision"`

	// Pitch is the row pitch in pixels, zero for proportional rows
	Pitch float64 `json:"pitch,omitempty"`

	// Cells is the number of character cell boundaries laid on the row
	Cells int `json:"cells,omitempty"`

	// DotMatrix marks rows fitted with the dot-matrix merge model
	DotMatrix bool `json:"dot_matrix,omitempty"`
}

// ReportFileVersion is the current version of the report file format
const ReportFileVersion = 1

// NewReport creates a new empty Report
func NewReport() *Report {
	return &Report{
		Pages:   make(map[string]*PageResult),
		Version: ReportFileVersion,
	}
}

// FromPage builds a PageResult from an analyzed page model
func FromPage(path, hash string, pg *page.Page) *PageResult {
	result := &PageResult{
		ID:         uuid.NewString(),
		Path:       path,
		Hash:       hash,
		AnalyzedAt: time.Now(),
	}
	for _, block := range pg.Blocks {
		br := BlockResult{
			Decision: block.Decision.String(),
			Pitch:    block.FixedPitch,
		}
		for _, row := range block.Rows {
			br.Rows = append(br.Rows, RowResult{
				Decision:  row.Decision.String(),
				Pitch:     row.FixedPitch,
				Cells:     len(row.CharCells),
				DotMatrix: row.UsedDMModel,
			})
		}
		result.Blocks = append(result.Blocks, br)
	}
	return result
}

// Stale returns true if the stored result no longer matches the image content
func (pr *PageResult) Stale(hash string) bool {
	if pr.AnalyzedAt.IsZero() {
		return true
	}
	return pr.Hash != hash
}

// RowCounts returns the number of fixed-pitch and proportional rows
func (pr *PageResult) RowCounts() (fixed, prop int) {
	for _, block := range pr.Blocks {
		for _, row := range block.Rows {
			if row.Pitch > 0 {
				fixed++
			} else {
				prop++
			}
		}
	}
	return fixed, prop
}

// GetPage returns the result for an image path, or nil if not recorded
func (r *Report) GetPage(path string) *PageResult {
	return r.Pages[path]
}

// AddPage adds or replaces a page result
func (r *Report) AddPage(result *PageResult) {
	r.Pages[result.Path] = result
	r.GeneratedAt = time.Now()
}

// RemovePage removes a page result
func (r *Report) RemovePage(path string) {
	delete(r.Pages, path)
}

// NeedsAnalysis returns true if the image has no recorded result or its
// content changed since the result was recorded
func (r *Report) NeedsAnalysis(path, hash string) bool {
	result, ok := r.Pages[path]
	if !ok {
		return true
	}
	return result.Stale(hash)
}

// PagesByDecision returns all page results containing at least one block
// with the given decision
func (r *Report) PagesByDecision(decision string) []*PageResult {
	var results []*PageResult
	for _, pr := range r.Pages {
		for _, block := range pr.Blocks {
			if block.Decision == decision {
				results = append(results, pr)
				break
			}
		}
	}
	return results
}
