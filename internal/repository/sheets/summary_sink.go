package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/stitchline/stitchline/internal/config"
	"github.com/stitchline/stitchline/internal/domain/models"
)

const summaryWriteRange = "Summaries!A:I"

// SummarySink exports daily summaries for consumption outside the system.
type SummarySink interface {
	AppendSummary(ctx context.Context, summary models.DailySummary) error
}

// GoogleSheetSink implements SummarySink using the official Google Sheets API,
// appending one row per day to the factory manager's spreadsheet.
type GoogleSheetSink struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetSink builds a Google Sheets backed summary sink.
func NewGoogleSheetSink(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (SummarySink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetSink{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSummary appends the daily rollup as one spreadsheet row.
func (s *GoogleSheetSink) AppendSummary(ctx context.Context, summary models.DailySummary) error {
	values := []interface{}{
		summary.Date,
		summary.GoodsIssued,
		summary.GoodsProduced,
		summary.AlterationCount,
		summary.QCPassed,
		summary.PackingCompleted,
		summary.ConversionRate,
		summary.AlterationRate,
		summary.ActiveWorkers,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := s.service.Spreadsheets.Values.Append(s.spreadsheetID, summaryWriteRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row for %s: %w", summary.Date, err)
	}

	s.logger.Debug("summary row appended to sheet", zap.String("date", summary.Date))
	return nil
}
