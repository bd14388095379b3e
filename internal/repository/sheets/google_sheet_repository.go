package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/linetrack/internal/config"
)

// Sheet is one tab of a workbook; the first row is the header.
type Sheet struct {
	Title string
	Rows  [][]interface{}
}

// Workbook is a spreadsheet to create in one go.
type Workbook struct {
	Title  string
	Sheets []Sheet
}

// Created identifies a spreadsheet written by the repository.
type Created struct {
	SpreadsheetID string `json:"spreadsheetId"`
	URL           string `json:"url"`
}

// Repository defines the operations supported by the Google Sheets adapter.
type Repository interface {
	CreateWorkbook(ctx context.Context, book Workbook) (Created, error)
}

// GoogleSheetRepository implements Repository using the official Google Sheets API.
type GoogleSheetRepository struct {
	service   *sheetsapi.Service
	drive     *drive.Service
	shareWith []string
	logger    *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	creds := option.WithCredentialsFile(cfg.CredentialsPath)

	service, err := sheetsapi.NewService(ctx, creds, option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	var driveService *drive.Service
	if len(cfg.ShareWith) > 0 {
		driveService, err = drive.NewService(ctx, creds, option.WithScopes(drive.DriveFileScope))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize drive client: %w", err)
		}
	}

	return &GoogleSheetRepository{
		service:   service,
		drive:     driveService,
		shareWith: cfg.ShareWith,
		logger:    logger,
	}, nil
}

// CreateWorkbook creates a spreadsheet with one tab per sheet, writes every
// row and shares it with the configured addresses.
func (r *GoogleSheetRepository) CreateWorkbook(ctx context.Context, book Workbook) (Created, error) {
	if len(book.Sheets) == 0 {
		return Created{}, fmt.Errorf("workbook %q has no sheets", book.Title)
	}

	spreadsheet := &sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{Title: book.Title},
	}
	for _, sh := range book.Sheets {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheetsapi.Sheet{
			Properties: &sheetsapi.SheetProperties{Title: sh.Title},
		})
	}

	created, err := r.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return Created{}, fmt.Errorf("create spreadsheet %q: %w", book.Title, err)
	}

	data := make([]*sheetsapi.ValueRange, 0, len(book.Sheets))
	for _, sh := range book.Sheets {
		data = append(data, &sheetsapi.ValueRange{Range: A1(sh.Title), Values: sh.Rows})
	}

	payload := &sheetsapi.BatchUpdateValuesRequest{ValueInputOption: "RAW", Data: data}
	if _, err := r.service.Spreadsheets.Values.BatchUpdate(created.SpreadsheetId, payload).Context(ctx).Do(); err != nil {
		return Created{}, fmt.Errorf("write spreadsheet %s: %w", created.SpreadsheetId, err)
	}

	for _, email := range r.shareWith {
		perm := &drive.Permission{Type: "user", Role: "writer", EmailAddress: email}
		if _, err := r.drive.Permissions.Create(created.SpreadsheetId, perm).SendNotificationEmail(false).Context(ctx).Do(); err != nil {
			// the workbook exists already; a failed share should not lose it
			r.logger.Warn("failed to share spreadsheet", zap.String("spreadsheet_id", created.SpreadsheetId), zap.String("email", email), zap.Error(err))
		}
	}

	r.logger.Info("spreadsheet created", zap.String("spreadsheet_id", created.SpreadsheetId), zap.Int("sheets", len(book.Sheets)))
	return Created{SpreadsheetID: created.SpreadsheetId, URL: created.SpreadsheetUrl}, nil
}

// A1 returns the top-left anchor of a tab, quoting the title for the API.
func A1(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!A1"
}
