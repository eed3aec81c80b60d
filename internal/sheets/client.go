package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jesus-guti/tqr-rpe/internal/metrics"
)

// Config holds the service-account credentials the client authenticates
// with. Passed in explicitly so the client never reads ambient process state.
type Config struct {
	ServiceAccountEmail string
	PrivateKeyPEM       string
}

// Client is the Google Sheets/Drive implementation of API and Admin
type Client struct {
	sheets *sheets.Service
	drive  *drive.Service
}

var _ API = (*Client)(nil)
var _ Admin = (*Client)(nil)

// NewClient builds an authenticated client from service-account credentials
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ServiceAccountEmail == "" || cfg.PrivateKeyPEM == "" {
		return nil, fmt.Errorf("google service-account credentials are not configured")
	}

	jwtConfig := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.PrivateKeyPEM),
		Scopes: []string{
			sheets.SpreadsheetsScope,
			drive.DriveScope,
		},
		TokenURL: google.JWTTokenURL,
	}
	httpClient := jwtConfig.Client(ctx)

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	log.Info().Str("service_account", cfg.ServiceAccountEmail).Msg("Google Sheets client initialized")

	return &Client{
		sheets: sheetsService,
		drive:  driveService,
	}, nil
}

// ReadRange returns the cell values of an A1 range
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	start := time.Now()
	resp, err := c.sheets.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	recordCall("values_get", err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}
	return resp.Values, nil
}

// WriteRange writes values starting at the top-left of an A1 range
func (c *Client) WriteRange(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	start := time.Now()
	_, err := c.sheets.Spreadsheets.Values.
		Update(spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	recordCall("values_update", err, start)
	if err != nil {
		return fmt.Errorf("failed to write range %s: %w", writeRange, err)
	}
	return nil
}

// BatchWrite applies several range writes in one request
func (c *Client) BatchWrite(ctx context.Context, spreadsheetID string, data []ValueRange) error {
	if len(data) == 0 {
		return nil
	}

	payload := make([]*sheets.ValueRange, 0, len(data))
	for _, vr := range data {
		payload = append(payload, &sheets.ValueRange{
			Range:  vr.Range,
			Values: vr.Values,
		})
	}

	start := time.Now()
	_, err := c.sheets.Spreadsheets.Values.
		BatchUpdate(spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             payload,
		}).
		Context(ctx).
		Do()
	recordCall("values_batch_update", err, start)
	if err != nil {
		return fmt.Errorf("failed to batch-write %d ranges: %w", len(data), err)
	}
	return nil
}

// ClearRange empties an A1 range
func (c *Client) ClearRange(ctx context.Context, spreadsheetID, clearRange string) error {
	start := time.Now()
	_, err := c.sheets.Spreadsheets.Values.
		Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	recordCall("values_clear", err, start)
	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", clearRange, err)
	}
	return nil
}

// CreateSpreadsheet creates a spreadsheet whose first tab carries the given
// sheet name
func (c *Client) CreateSpreadsheet(ctx context.Context, title, sheetName string) (string, error) {
	start := time.Now()
	resp, err := c.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetName}},
		},
	}).Context(ctx).Do()
	recordCall("spreadsheets_create", err, start)
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	log.Info().
		Str("spreadsheet_id", resp.SpreadsheetId).
		Str("title", title).
		Msg("Spreadsheet created")

	return resp.SpreadsheetId, nil
}

// MoveToFolder relocates a spreadsheet into a Drive folder
func (c *Client) MoveToFolder(ctx context.Context, spreadsheetID, folderID string) error {
	start := time.Now()
	file, err := c.drive.Files.Get(spreadsheetID).Fields("parents").Context(ctx).Do()
	if err != nil {
		recordCall("drive_move", err, start)
		return fmt.Errorf("failed to look up spreadsheet parents: %w", err)
	}

	_, err = c.drive.Files.Update(spreadsheetID, nil).
		AddParents(folderID).
		RemoveParents(strings.Join(file.Parents, ",")).
		Context(ctx).
		Do()
	recordCall("drive_move", err, start)
	if err != nil {
		return fmt.Errorf("failed to move spreadsheet to folder: %w", err)
	}
	return nil
}

// FormatHeader shades and bolds the two header rows and freezes the header
// rows plus the player-name column
func (c *Client) FormatHeader(ctx context.Context, spreadsheetID, sheetName string, columns int) error {
	sheetID, err := c.sheetIDByName(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}

	headerFormat := &sheets.CellFormat{
		BackgroundColor:     &sheets.Color{Red: 0.85, Green: 0.88, Blue: 0.95},
		TextFormat:          &sheets.TextFormat{Bold: true},
		HorizontalAlignment: "CENTER",
	}

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      headerRows,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
				},
				Cell:   &sheets.CellData{UserEnteredFormat: headerFormat},
				Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount:    headerRows,
						FrozenColumnCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		},
	}

	start := time.Now()
	_, err = c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	recordCall("format_header", err, start)
	if err != nil {
		return fmt.Errorf("failed to format header: %w", err)
	}
	return nil
}

// sheetIDByName resolves a sheet tab's numeric ID from its title
func (c *Client) sheetIDByName(ctx context.Context, spreadsheetID, sheetName string) (int64, error) {
	start := time.Now()
	spreadsheet, err := c.sheets.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	recordCall("spreadsheets_get", err, start)
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return sheet.Properties.SheetId, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrSheetTabMissing, sheetName)
}

func recordCall(operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordSheetAPICall(operation, status, time.Since(start).Seconds())
}
