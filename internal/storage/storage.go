// Package storage persists enrichment run artifacts: per-run JSON
// reports, shared pattern-cache snapshots, and the durable verification
// ledger. Local mode keeps everything under a data directory; AWS mode
// uses S3 for documents and DynamoDB for the ledger.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/enrich"
	"github.com/ignite/email-enrich/internal/pkg/logger"
)

// maxReports bounds the in-memory run-report history.
const maxReports = 100

// RunReport is the persisted summary of one enrichment run.
type RunReport struct {
	enrich.RunStats
	InputFile  string `json:"input_file"`
	OutputFile string `json:"output_file"`
}

// Storage provides persistent storage for run artifacts
type Storage struct {
	config config.StorageConfig
	mu     sync.RWMutex

	// AWS storage (optional)
	aws *AWSStorage

	// Recent run reports, oldest first
	reports []RunReport
}

// New creates a new Storage instance
func New(cfg config.StorageConfig) (*Storage, error) {
	s := &Storage{
		config:  cfg,
		reports: make([]RunReport, 0),
	}

	ctx := context.Background()

	switch cfg.Type {
	case "aws":
		awsStorage, err := NewAWSStorage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing AWS storage: %w", err)
		}
		s.aws = awsStorage

		// Seed the report history from S3
		if reports, err := awsStorage.ListRunReports(ctx); err == nil {
			s.reports = reports
		}

	case "local":
		if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}

		if err := s.loadFromDisk(); err != nil {
			// Not fatal, the history just starts empty
			logger.Warn("storage_history_unreadable", "error", err.Error())
		}
	}

	s.trimReports()
	return s, nil
}

// SaveRunReport persists a run summary and adds it to the history.
func (s *Storage) SaveRunReport(ctx context.Context, report RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)
	s.trimReports()

	switch s.config.Type {
	case "aws":
		if s.aws != nil {
			return s.aws.SaveRunReportToS3(ctx, report)
		}
	case "local":
		return s.saveToFile("reports", report.RunID, report)
	}

	return nil
}

// RecentReports returns up to limit of the newest run reports.
func (s *Storage) RecentReports(limit int) []RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.reports) {
		limit = len(s.reports)
	}

	start := len(s.reports) - limit
	result := make([]RunReport, limit)
	copy(result, s.reports[start:])
	return result
}

// SavePatternSnapshot publishes the pattern cache file so other
// machines can seed from it. Local mode keeps a copy under the data
// dir; AWS mode pushes the document to S3.
func (s *Storage) SavePatternSnapshot(ctx context.Context, cachePath string) error {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return fmt.Errorf("reading pattern cache: %w", err)
	}

	switch s.config.Type {
	case "aws":
		if s.aws != nil {
			return s.aws.SavePatternSnapshotToS3(ctx, data)
		}
	case "local":
		dir := filepath.Join(s.config.LocalPath, "patterns")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, "pattern_cache.json"), data, 0644)
	}

	return nil
}

// RestorePatternSnapshot seeds the pattern cache file from the shared
// snapshot. AWS mode overwrites the local file so the fleet-wide state
// wins at startup; local mode only fills in a missing file. Reports
// whether a snapshot was applied.
func (s *Storage) RestorePatternSnapshot(ctx context.Context, cachePath string) (bool, error) {
	switch s.config.Type {
	case "aws":
		if s.aws == nil {
			return false, nil
		}
		data, found, err := s.aws.GetPatternSnapshotFromS3(ctx)
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			return false, fmt.Errorf("writing pattern cache: %w", err)
		}
		return true, nil

	case "local":
		if _, err := os.Stat(cachePath); err == nil {
			// An existing working file is newer than any backup.
			return false, nil
		}
		data, err := os.ReadFile(filepath.Join(s.config.LocalPath, "patterns", "pattern_cache.json"))
		if err != nil {
			return false, nil
		}
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			return false, fmt.Errorf("writing pattern cache: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// VerificationLedger returns the durable verdict cache, or nil when the
// backend has no DynamoDB table configured.
func (s *Storage) VerificationLedger() *VerdictLedger {
	if s.aws == nil || s.config.DynamoDBTable == "" {
		return nil
	}
	return NewVerdictLedger(s.aws)
}

// GetCacheStats returns statistics about the stored history
func (s *Storage) GetCacheStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"storage_type": s.config.Type,
		"reports":      len(s.reports),
		"aws_enabled":  s.aws != nil,
	}
}

// trimReports keeps the newest maxReports entries. Callers hold the lock.
func (s *Storage) trimReports() {
	sort.Slice(s.reports, func(i, j int) bool {
		return s.reports[i].StartedAt.Before(s.reports[j].StartedAt)
	})
	if len(s.reports) > maxReports {
		s.reports = s.reports[len(s.reports)-maxReports:]
	}
}

// saveToFile saves data to a JSON file
func (s *Storage) saveToFile(category, key string, data interface{}) error {
	dir := filepath.Join(s.config.LocalPath, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Sanitize key for filename
	safeKey := filepath.Base(key)
	path := filepath.Join(dir, safeKey+".json")

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// loadFromFile loads data from a JSON file
func (s *Storage) loadFromFile(category, key string, data interface{}) error {
	safeKey := filepath.Base(key)
	path := filepath.Join(s.config.LocalPath, category, safeKey+".json")

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(data)
}

// loadFromDisk loads the run-report history from the data directory
func (s *Storage) loadFromDisk() error {
	reportsDir := filepath.Join(s.config.LocalPath, "reports")
	entries, err := os.ReadDir(reportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		var report RunReport
		name := strings.TrimSuffix(entry.Name(), ".json")
		if err := s.loadFromFile("reports", name, &report); err == nil {
			s.reports = append(s.reports, report)
		}
	}

	return nil
}
