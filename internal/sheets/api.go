package sheets

import (
	"context"
)

// ValueRange pairs an A1 range with the values destined for it
type ValueRange struct {
	Range  string
	Values [][]interface{}
}

// API is the narrow slice of the spreadsheet service the reconciliation logic
// depends on. Keeping it this small lets the sync run against an in-memory
// fake in tests.
type API interface {
	// ReadRange returns the cell values of an A1 range. Trailing empty rows
	// and cells are trimmed, matching the remote service's behavior.
	ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)

	// WriteRange writes values starting at the top-left of an A1 range
	WriteRange(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error

	// BatchWrite applies several range writes in a single request. Partial
	// failure is possible on the remote side and is not rolled back.
	BatchWrite(ctx context.Context, spreadsheetID string, data []ValueRange) error

	// ClearRange empties an A1 range without touching formatting
	ClearRange(ctx context.Context, spreadsheetID, clearRange string) error
}

// Admin covers the management operations outside the cell-reconciliation
// path: spreadsheet creation, Drive relocation, and cosmetic formatting.
type Admin interface {
	// CreateSpreadsheet creates a new spreadsheet whose first tab carries the
	// given sheet name, returning the new spreadsheet ID
	CreateSpreadsheet(ctx context.Context, title, sheetName string) (string, error)

	// MoveToFolder relocates a spreadsheet into a Drive folder
	MoveToFolder(ctx context.Context, spreadsheetID, folderID string) error

	// FormatHeader applies header styling and frozen panes to a sheet:
	// shaded bold header rows and a frozen header/name region
	FormatHeader(ctx context.Context, spreadsheetID, sheetName string, columns int) error
}

// SpreadsheetURL returns the browser URL for a spreadsheet
func SpreadsheetURL(spreadsheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID + "/edit"
}
