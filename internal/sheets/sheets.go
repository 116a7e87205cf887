// Package sheets defines the spreadsheet writer contract and its two
// implementations: a live client backed by the Google Sheets API and a demo
// client that logs what it would have written. The orchestrator treats the
// spreadsheet as a third external system; connect and write failures are
// recorded on the run result and never abort it.
package sheets

import "context"

// Writer is the destination for merged rows.
type Writer interface {
	// Connect establishes the API session. In live mode the other
	// operations require a prior successful Connect.
	Connect(ctx context.Context) error

	// Read returns the cell values in the given range reference
	// (e.g. "A:Z"), scoped to the configured sheet.
	Read(ctx context.Context, rng string) ([][]any, error)

	// Write clears the sheet and writes the given values starting at A1,
	// returning the number of rows written.
	Write(ctx context.Context, values [][]any) (int, error)

	// AppendRow appends a single row after the sheet's current data.
	AppendRow(ctx context.Context, row []any) error
}
