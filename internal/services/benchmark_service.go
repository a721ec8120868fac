package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"catalogbench/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentBackend is the part of the document controller the driver uses.
type DocumentBackend interface {
	CRUDAll(ctx context.Context) error
	ExportCollectionToJSON(ctx context.Context, path string) (int, error)
}

// RelationalBackend is the part of the relational controller the driver uses.
type RelationalBackend interface {
	CRUDAll(ctx context.Context) error
	ExportTableToCSV(ctx context.Context, table, path string) (int, error)
	ExportTablesToXLSX(ctx context.Context, path string, tables ...string) error
}

// ReportPublisher receives every finished report.
type ReportPublisher interface {
	PublishBenchmarkReport(report models.BenchmarkReport) error
}

// BenchmarkOptions controls where exports go.
type BenchmarkOptions struct {
	ExportDir          string
	DocumentExportFile string
	XLSXExportFile     string // empty disables the workbook
	DeleteMode         string
}

// BenchmarkService times CRUD cycles and exports against both backends.
// Runs are serialized so that at most one operation is in flight.
type BenchmarkService struct {
	document   DocumentBackend
	relational RelationalBackend
	publisher  ReportPublisher
	opts       BenchmarkOptions
	log        *zap.Logger

	runMu    sync.Mutex
	latestMu sync.RWMutex
	latest   *models.BenchmarkReport
}

// NewBenchmarkService creates a new BenchmarkService. publisher may be nil.
func NewBenchmarkService(document DocumentBackend, relational RelationalBackend, publisher ReportPublisher, opts BenchmarkOptions, log *zap.Logger) *BenchmarkService {
	return &BenchmarkService{
		document:   document,
		relational: relational,
		publisher:  publisher,
		opts:       opts,
		log:        log,
	}
}

// Run executes n CRUD cycles on the document store, then n on the relational
// store, then exports both. Any store error aborts the run.
func (s *BenchmarkService) Run(ctx context.Context, n int) (*models.BenchmarkReport, error) {
	if n < 0 {
		return nil, fmt.Errorf("record count must not be negative, got %d", n)
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	report := &models.BenchmarkReport{
		ID:         uuid.New().String(),
		Records:    n,
		DeleteMode: s.opts.DeleteMode,
		StartedAt:  time.Now().UTC(),
	}
	s.log.Info("Benchmark started", zap.String("run_id", report.ID), zap.Int("records", n))

	start := time.Now()
	for i := 0; i < n; i++ {
		if err := s.document.CRUDAll(ctx); err != nil {
			return nil, fmt.Errorf("mongo cycle %d: %w", i+1, err)
		}
	}
	report.DocumentCRUD = time.Since(start)

	start = time.Now()
	for i := 0; i < n; i++ {
		if err := s.relational.CRUDAll(ctx); err != nil {
			return nil, fmt.Errorf("postgres cycle %d: %w", i+1, err)
		}
	}
	report.RelationalCRUD = time.Since(start)

	report.DocumentExportFile = filepath.Join(s.opts.ExportDir, s.opts.DocumentExportFile)
	start = time.Now()
	if _, err := s.document.ExportCollectionToJSON(ctx, report.DocumentExportFile); err != nil {
		return nil, fmt.Errorf("mongo export: %w", err)
	}
	report.DocumentExport = time.Since(start)

	start = time.Now()
	for _, table := range models.RelationalTables {
		path := filepath.Join(s.opts.ExportDir, table+".csv")
		if _, err := s.relational.ExportTableToCSV(ctx, table, path); err != nil {
			return nil, fmt.Errorf("postgres export of %s: %w", table, err)
		}
		report.RelationalFiles = append(report.RelationalFiles, path)
	}
	if s.opts.XLSXExportFile != "" {
		path := filepath.Join(s.opts.ExportDir, s.opts.XLSXExportFile)
		if err := s.relational.ExportTablesToXLSX(ctx, path, models.RelationalTables...); err != nil {
			return nil, fmt.Errorf("postgres workbook export: %w", err)
		}
		report.RelationalFiles = append(report.RelationalFiles, path)
	}
	report.RelationalExport = time.Since(start)
	report.FinishedAt = time.Now().UTC()

	s.log.Info("Benchmark finished",
		zap.String("run_id", report.ID),
		zap.Duration("mongo_crud", report.DocumentCRUD),
		zap.Duration("postgres_crud", report.RelationalCRUD),
		zap.Duration("mongo_export", report.DocumentExport),
		zap.Duration("postgres_export", report.RelationalExport),
	)

	s.latestMu.Lock()
	s.latest = cloneReport(report)
	s.latestMu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishBenchmarkReport(*report); err != nil {
			s.log.Warn("Failed to publish benchmark report", zap.String("run_id", report.ID), zap.Error(err))
		}
	}
	return report, nil
}

// Latest returns a copy of the most recent finished report.
func (s *BenchmarkService) Latest() (*models.BenchmarkReport, bool) {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()

	if s.latest == nil {
		return nil, false
	}
	return cloneReport(s.latest), true
}

func cloneReport(report *models.BenchmarkReport) *models.BenchmarkReport {
	r := *report
	r.RelationalFiles = append([]string(nil), report.RelationalFiles...)
	return &r
}
