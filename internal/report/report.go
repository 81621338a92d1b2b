// Package report persists pitch analysis results across runs so a batch
// of page images can be analyzed incrementally: unchanged images keep
// their recorded results, changed ones are detected by content hash.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store handles report persistence and operations
type Store struct {
	report   *Report
	filePath string
	mu       sync.RWMutex
}

// NewStore creates a new report store
func NewStore(filePath string) *Store {
	return &Store{
		report:   NewReport(),
		filePath: filePath,
	}
}

// Load reads the report from the JSON file
// If the file doesn't exist, returns a new empty report (not an error)
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		s.report = NewReport()
		return nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read report file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("failed to parse report file: %w", err)
	}

	if report.Version != ReportFileVersion {
		return fmt.Errorf("unsupported report file version %d (expected %d)", report.Version, ReportFileVersion)
	}
	if report.Pages == nil {
		report.Pages = make(map[string]*PageResult)
	}

	s.report = &report
	return nil
}

// Save writes the report to the JSON file atomically
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	// Write to a temp file first so a crash never truncates the report.
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp report file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp report file: %w", err)
	}

	return nil
}

// Report returns the current report
func (s *Store) Report() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// GetPage returns the result for an image path, or nil if not recorded
func (s *Store) GetPage(path string) *PageResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report.GetPage(path)
}

// AddPage adds or replaces a page result
func (s *Store) AddPage(result *PageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.AddPage(result)
}

// RemovePage removes a page result
func (s *Store) RemovePage(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.RemovePage(path)
}

// NeedsAnalysis returns true if the image has no recorded result or its
// content changed since the result was recorded
func (s *Store) NeedsAnalysis(path, hash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report.NeedsAnalysis(path, hash)
}

// PagesByDecision returns all page results containing at least one block
// with the given decision
func (s *Store) PagesByDecision(decision string) []*PageResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report.PagesByDecision(decision)
}

// Reset clears all results and starts a fresh empty report
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = NewReport()
}

// Count returns the number of recorded page results
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.report.Pages)
}

// LoadOrCreate loads an existing report file or creates a new one if it
// doesn't exist
func LoadOrCreate(filePath string) (*Store, error) {
	store := NewStore(filePath)

	if err := store.Load(); err != nil {
		return nil, err
	}

	if len(store.report.Pages) == 0 && store.report.GeneratedAt.IsZero() {
		if err := store.Save(); err != nil {
			return nil, fmt.Errorf("failed to save initial report: %w", err)
		}
	}

	return store, nil
}

// HashFile returns the hex SHA256 of a file's contents
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image for hashing: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
