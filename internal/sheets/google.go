package sheets

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
)

var _ Writer = (*Client)(nil)

const targetName = "sheets"

// Config holds the credentials and destination for the live Sheets client.
type Config struct {
	CredentialsFile string // service account JSON key path
	SpreadsheetID   string
	SheetName       string
}

// Configured reports whether enough settings are present to attempt a
// connection.
func (c Config) Configured() bool {
	return c.SpreadsheetID != "" && c.CredentialsFile != ""
}

// Client implements the Writer contract against the Google Sheets API.
type Client struct {
	cfg Config

	mu  sync.RWMutex
	svc *sheets.Service // set by Connect
}

// New creates a Sheets writer from config.
func New(cfg Config) *Client {
	if cfg.SheetName == "" {
		cfg.SheetName = constants.DefaultSheetName
	}
	return &Client{cfg: cfg}
}

// Connect authenticates with the service account credentials file.
func (c *Client) Connect(ctx context.Context) error {
	if !c.cfg.Configured() {
		return errors.NewConnectionError(targetName, errors.ErrNotConfigured)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(c.cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return errors.NewConnectionError(targetName, err)
	}

	c.mu.Lock()
	c.svc = svc
	c.mu.Unlock()

	logging.Ctx(ctx).Info().
		Str("target", targetName).
		Str("spreadsheet_id", c.cfg.SpreadsheetID).
		Str("sheet", c.cfg.SheetName).
		Msg("Connected to Google Sheets")
	return nil
}

// Read returns the cell values in the given range of the configured sheet.
func (c *Client) Read(ctx context.Context, rng string) ([][]any, error) {
	svc := c.service()
	if svc == nil {
		return nil, errors.WrapFetch(targetName, errors.ErrNotConnected)
	}

	resp, err := svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, c.rangeFor(rng)).Context(ctx).Do()
	if err != nil {
		return nil, errors.NewFetchError(targetName, err)
	}

	logging.Ctx(ctx).Debug().
		Str("target", targetName).
		Int("rows", len(resp.Values)).
		Msg("Read rows from sheet")
	return resp.Values, nil
}

// Write clears the sheet and writes values starting at A1 with USER_ENTERED
// parsing, so dates and numbers land as native cell types.
func (c *Client) Write(ctx context.Context, values [][]any) (int, error) {
	svc := c.service()
	if svc == nil {
		return 0, errors.WrapWrite(targetName, c.rangeFor("A1"), errors.ErrNotConnected)
	}
	if len(values) == 0 {
		logging.Ctx(ctx).Warn().
			Str("target", targetName).
			Msg("No values to write, leaving sheet untouched")
		return 0, nil
	}

	clearRange := c.rangeFor(constants.DefaultSheetRange)
	if _, err := svc.Spreadsheets.Values.Clear(c.cfg.SpreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return 0, errors.NewWriteError(targetName, clearRange, err)
	}

	writeRange := c.rangeFor("A1")
	body := &sheets.ValueRange{Values: values}
	resp, err := svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, writeRange, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return 0, errors.NewWriteError(targetName, writeRange, err)
	}

	written := int(resp.UpdatedRows)
	logging.Ctx(ctx).Info().
		Str("target", targetName).
		Int("rows", written).
		Msg("Wrote rows to sheet")
	return written, nil
}

// AppendRow appends a single row after the sheet's current data.
func (c *Client) AppendRow(ctx context.Context, row []any) error {
	svc := c.service()
	if svc == nil {
		return errors.WrapWrite(targetName, c.rangeFor("A:A"), errors.ErrNotConnected)
	}

	appendRange := c.rangeFor("A:A")
	body := &sheets.ValueRange{Values: [][]any{row}}
	_, err := svc.Spreadsheets.Values.Append(c.cfg.SpreadsheetID, appendRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return errors.NewWriteError(targetName, appendRange, err)
	}

	logging.Ctx(ctx).Debug().
		Str("target", targetName).
		Msg("Appended row to sheet")
	return nil
}

// service returns the live API handle, or nil before a successful Connect.
func (c *Client) service() *sheets.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.svc
}

// rangeFor scopes a range reference to the configured sheet, quoting the
// name since it may contain spaces ("Master Data").
func (c *Client) rangeFor(ref string) string {
	return fmt.Sprintf("'%s'!%s", c.cfg.SheetName, ref)
}
