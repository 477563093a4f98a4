package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// importDateLayouts are tried in order for the date column
var importDateLayouts = []string{"2006-01-02", "02/01/2006"}

// ImportService bulk-loads transactions from delimited text
type ImportService struct {
	eventSource
	transactionRepo domain.TransactionRepository
	logger          zerolog.Logger
}

// NewImportService creates a new ImportService
func NewImportService(transactionRepo domain.TransactionRepository) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
		logger:          log.With().Str("component", "import").Logger(),
	}
}

// ImportResult reports how many lines were stored
type ImportResult struct {
	Imported int    `json:"imported"`
	BatchID  string `json:"batchId"`
}

// ImportTransactions reads a header line followed by description,amount,type,category,date
// lines. The delimiter is ';' when the header contains one, otherwise ','. Malformed lines
// are skipped and an empty payload imports nothing. Lines stored before a storage failure
// are kept.
func (s *ImportService) ImportTransactions(ctx context.Context, r io.Reader) (*ImportResult, error) {
	result := &ImportResult{BatchID: uuid.New().String()}

	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read import header: %w", err)
	}
	if strings.TrimSpace(header) == "" {
		s.logger.Debug().Str("batch_id", result.BatchID).Msg("Empty import payload")
		return result, nil
	}

	reader := csv.NewReader(br)
	reader.Comma = ','
	if strings.Contains(header, ";") {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Debug().Err(err).Int("line", line).Msg("Skipping unreadable import line")
			continue
		}

		if reader.Comma == ',' {
			record = joinCommaDecimal(record)
		}
		input, err := parseImportRecord(record)
		if err != nil {
			s.logger.Debug().Err(err).Int("line", line).Msg("Skipping malformed import line")
			continue
		}
		tx, err := buildTransaction(input)
		if err != nil {
			s.logger.Debug().Err(err).Int("line", line).Msg("Skipping invalid import line")
			continue
		}

		if _, err := s.transactionRepo.Create(ctx, tx); err != nil {
			return nil, err
		}
		result.Imported++
	}

	s.logger.Info().
		Str("batch_id", result.BatchID).
		Int("imported", result.Imported).
		Msg("Transactions imported")

	if result.Imported > 0 {
		s.publishEvent(ctx, event.TransactionsImported(result.BatchID, result.Imported))
	}
	return result, nil
}

// joinCommaDecimal rejoins an amount such as "12,50" that the ',' delimiter split in two
func joinCommaDecimal(record []string) []string {
	if len(record) != 6 {
		return record
	}
	amount := record[1] + "," + record[2]
	if _, err := calc.ParseAmount(amount); err != nil {
		return record
	}
	joined := make([]string, 0, 5)
	joined = append(joined, record[0], amount)
	return append(joined, record[3:]...)
}

func parseImportRecord(record []string) (CreateTransactionInput, error) {
	if len(record) < 5 {
		return CreateTransactionInput{}, fmt.Errorf("expected 5 fields, got %d", len(record))
	}

	amount, err := calc.ParseAmount(record[1])
	if err != nil {
		return CreateTransactionInput{}, err
	}
	txType, err := domain.ParseTransactionType(record[2])
	if err != nil {
		return CreateTransactionInput{}, err
	}
	date, err := parseImportDate(record[4])
	if err != nil {
		return CreateTransactionInput{}, err
	}

	return CreateTransactionInput{
		Description: record[0],
		Amount:      amount,
		Type:        txType,
		Category:    record[3],
		Date:        date,
	}, nil
}

func parseImportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
