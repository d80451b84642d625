// Package sheets appends lead rows to an existing Google Sheets tab via a
// service account. The spreadsheet and the target tab must already exist;
// nothing here creates sheets.
package sheets

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// SheetNotFoundError is returned when the target tab does not exist in the
// spreadsheet. The message tells the operator to create it by hand.
type SheetNotFoundError struct {
	SheetName string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheets: sayfa %q bulunamadı, lütfen önce %q adında bir sayfa oluşturun", e.SheetName, e.SheetName)
}

// WriteResult reports what an append touched.
type WriteResult struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetName     string `json:"sheet_name"`
	UpdatedRange  string `json:"updated_range,omitempty"`
	UpdatedRows   int64  `json:"updated_rows,omitempty"`
}

// Appender writes rows to one tab of one spreadsheet.
type Appender struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

// NewAppender builds an appender. Credentials come from the service
// account file when set, otherwise application default credentials; extra
// options are passed through, which lets tests point at a fake server.
func NewAppender(ctx context.Context, spreadsheetID, sheetName, credentialsFile string, opts ...option.ClientOption) (*Appender, error) {
	if spreadsheetID == "" {
		return nil, eris.New("sheets: spreadsheet id is required")
	}
	if sheetName == "" {
		return nil, eris.New("sheets: sheet name is required")
	}

	clientOpts := []option.ClientOption{
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	}
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: build service")
	}

	return &Appender{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// sheetExists checks the spreadsheet metadata for the target tab.
func (a *Appender) sheetExists(ctx context.Context) (bool, error) {
	meta, err := a.svc.Spreadsheets.Get(a.spreadsheetID).
		Fields("sheets(properties(title))").
		Context(ctx).
		Do()
	if err != nil {
		return false, eris.Wrap(err, "sheets: get spreadsheet")
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == a.sheetName {
			return true, nil
		}
	}
	return false, nil
}

// firstRow returns row 1 of the tab, or nil when it is empty.
func (a *Appender) firstRow(ctx context.Context) ([]interface{}, error) {
	rng := fmt.Sprintf("%s!1:1", a.sheetName)
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrap(err, "sheets: read header row")
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return resp.Values[0], nil
}

// EnsureHeader writes the header into row 1 when the row is empty. It
// fails with SheetNotFoundError when the tab is missing and never creates
// one.
func (a *Appender) EnsureHeader(ctx context.Context, header []string) error {
	exists, err := a.sheetExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return &SheetNotFoundError{SheetName: a.sheetName}
	}

	existing, err := a.firstRow(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	rng := fmt.Sprintf("%s!A1", a.sheetName)
	_, err = a.svc.Spreadsheets.Values.Update(a.spreadsheetID, rng, &sheetsapi.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, "sheets: write header")
	}
	return nil
}

// AppendRows appends rows below the existing data. It fails with
// SheetNotFoundError when the tab is missing.
func (a *Appender) AppendRows(ctx context.Context, rows [][]string) (*WriteResult, error) {
	exists, err := a.sheetExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &SheetNotFoundError{SheetName: a.sheetName}
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	rng := fmt.Sprintf("%s!A1", a.sheetName)
	resp, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, &sheetsapi.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrap(err, "sheets: append rows")
	}

	result := &WriteResult{SpreadsheetID: a.spreadsheetID, SheetName: a.sheetName}
	if resp.Updates != nil {
		result.UpdatedRange = resp.Updates.UpdatedRange
		result.UpdatedRows = resp.Updates.UpdatedRows
	}
	return result, nil
}
