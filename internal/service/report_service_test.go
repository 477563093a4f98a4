package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/export"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReportLedger(txRepo *testutil.MockTransactionRepository) {
	txRepo.AddTransaction(&domain.Transaction{Description: "Salary", Amount: decimal.NewFromInt(3000), Type: domain.TransactionTypeFixedIncome, Date: date(2024, 2, 5)})
	txRepo.AddTransaction(&domain.Transaction{Description: "Rent", Amount: decimal.NewFromInt(1000), Type: domain.TransactionTypeFixedExpense, Date: date(2024, 3, 1)})
	txRepo.AddTransaction(&domain.Transaction{Description: "Holiday", Amount: decimal.NewFromInt(2500), Type: domain.TransactionTypeVariableExpense, Date: date(2024, 8, 20)})
	txRepo.AddTransaction(&domain.Transaction{Description: "Last year", Amount: decimal.NewFromInt(999), Type: domain.TransactionTypeVariableIncome, Date: date(2023, 12, 31)})
}

func TestGetReport_Quarterly(t *testing.T) {
	ledgerService, txRepo, _, _, _ := newTestLedgerService()
	seedReportLedger(txRepo)

	report, err := NewReportService(ledgerService).GetReport(context.Background(), calc.GranularityQuarterly, 2024)
	require.NoError(t, err)
	require.Len(t, report.Rows, 4)

	assert.Equal(t, "Q1 2024", report.Rows[0].Label)
	assert.True(t, report.Rows[0].Net.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, calc.ClassificationSurplus, report.Rows[0].Classification)
	assert.Equal(t, calc.ClassificationBalanced, report.Rows[1].Classification)
	assert.Equal(t, calc.ClassificationDeficit, report.Rows[2].Classification)
	assert.True(t, report.Totals.Net.Equal(decimal.NewFromInt(-500)))
}

func TestExportReport_CSVWithArchive(t *testing.T) {
	ledgerService, txRepo, _, _, _ := newTestLedgerService()
	seedReportLedger(txRepo)
	archive := testutil.NewMockReportArchive()

	reportService := NewReportService(ledgerService)
	reportService.SetArchive(archive)

	result, err := reportService.ExportReport(context.Background(), calc.GranularityAnnual, 2024, export.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "report-2024-annual.csv", result.Filename)
	assert.Contains(t, string(result.Data), "2024,3000.00,3500.00,-500.00")

	require.NotEmpty(t, result.ArchiveKey)
	assert.True(t, strings.HasPrefix(result.ArchiveKey, "reports/2024/annual-"))
	assert.True(t, strings.HasSuffix(result.ArchiveKey, ".csv"))
	assert.Equal(t, result.Data, archive.Objects[result.ArchiveKey])
	assert.Equal(t, "https://archive.test/"+result.ArchiveKey, result.ArchiveURL)
}

func TestExportReport_ArchiveFailureStillReturnsDocument(t *testing.T) {
	ledgerService, _, _, _, _ := newTestLedgerService()
	archive := testutil.NewMockReportArchive()
	archive.Err = errors.New("bucket unavailable")

	reportService := NewReportService(ledgerService)
	reportService.SetArchive(archive)

	result, err := reportService.ExportReport(context.Background(), calc.GranularityMonthly, 2024, export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Empty(t, result.ArchiveKey)
	assert.NotEmpty(t, result.Data)
}

func TestGetReport_InvalidGranularity(t *testing.T) {
	ledgerService, _, _, _, _ := newTestLedgerService()

	_, err := NewReportService(ledgerService).GetReport(context.Background(), "weekly", 2024)
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
}
