package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/export"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// archiveLinkExpiry is how long a presigned archive link stays valid
const archiveLinkExpiry = 15 * time.Minute

// ReportService builds period reports and their exports
type ReportService struct {
	ledgerService *LedgerService
	archive       storage.ReportArchive
}

// NewReportService creates a new ReportService
func NewReportService(ledgerService *LedgerService) *ReportService {
	return &ReportService{ledgerService: ledgerService}
}

// SetArchive enables uploading every export to the archive
func (s *ReportService) SetArchive(archive storage.ReportArchive) {
	s.archive = archive
}

// ReportLine is a report row with its surplus/deficit classification
type ReportLine struct {
	calc.ReportRow
	Classification string `json:"classification"`
}

// ReportResult is a full period report
type ReportResult struct {
	Granularity calc.Granularity `json:"granularity"`
	Year        int              `json:"year"`
	Rows        []ReportLine     `json:"rows"`
	Totals      ReportLine       `json:"totals"`
}

func newReportLine(row calc.ReportRow) ReportLine {
	return ReportLine{ReportRow: row, Classification: row.Classification()}
}

func (s *ReportService) buildRows(ctx context.Context, granularity calc.Granularity, year int) ([]calc.ReportRow, error) {
	txs, err := s.ledgerService.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	return calc.BuildReport(txs, granularity, year)
}

// GetReport buckets the year's transactions by granularity
func (s *ReportService) GetReport(ctx context.Context, granularity calc.Granularity, year int) (*ReportResult, error) {
	rows, err := s.buildRows(ctx, granularity, year)
	if err != nil {
		return nil, err
	}

	lines := make([]ReportLine, len(rows))
	for i, row := range rows {
		lines[i] = newReportLine(row)
	}
	return &ReportResult{
		Granularity: granularity,
		Year:        year,
		Rows:        lines,
		Totals:      newReportLine(calc.ReportTotals(rows)),
	}, nil
}

// ExportResult is a rendered report document
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	// ArchiveKey and ArchiveURL are set when the document was archived
	ArchiveKey string
	ArchiveURL string
}

// ExportReport renders the report in format and archives it when an archive is set.
// A failed upload is logged and the document is still returned.
func (s *ReportService) ExportReport(ctx context.Context, granularity calc.Granularity, year int, format export.Format) (*ExportResult, error) {
	rows, err := s.buildRows(ctx, granularity, year)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s report %d", granularity, year)
	var buf bytes.Buffer
	if err := export.Write(&buf, format, export.NewReport(title, rows)); err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}

	result := &ExportResult{
		Filename:    fmt.Sprintf("report-%d-%s.%s", year, granularity, format.Extension()),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}

	if s.archive != nil {
		s.archiveExport(ctx, result, granularity, year, format)
	}
	return result, nil
}

func (s *ReportService) archiveExport(ctx context.Context, result *ExportResult, granularity calc.Granularity, year int, format export.Format) {
	key := fmt.Sprintf("reports/%d/%s-%s.%s", year, granularity, uuid.New().String(), format.Extension())
	stored, err := s.archive.Store(ctx, key, result.Data, result.ContentType)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to archive report export")
		return
	}
	result.ArchiveKey = stored

	url, err := s.archive.DownloadURL(ctx, stored, archiveLinkExpiry)
	if err != nil {
		log.Warn().Err(err).Str("key", stored).Msg("Failed to presign archived report")
		return
	}
	result.ArchiveURL = url
}
