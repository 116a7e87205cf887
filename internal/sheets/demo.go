package sheets

import (
	"context"

	"github.com/dealsync/dealsync/pkg/logging"
)

var _ Writer = (*Demo)(nil)

// Demo simulates the spreadsheet in demo mode: reads come back empty,
// writes report the row count they would have produced, and nothing leaves
// the process.
type Demo struct{}

// NewDemo creates the demo writer.
func NewDemo() *Demo {
	return &Demo{}
}

// Connect succeeds immediately; there is no session in demo mode.
func (d *Demo) Connect(ctx context.Context) error {
	logging.Ctx(ctx).Info().
		Str("target", targetName).
		Bool("demo", true).
		Msg("Connected to demo sheet")
	return nil
}

// Read returns an empty table.
func (d *Demo) Read(ctx context.Context, rng string) ([][]any, error) {
	logging.Ctx(ctx).Debug().
		Str("target", targetName).
		Bool("demo", true).
		Str("range", rng).
		Msg("Read skipped in demo mode")
	return [][]any{}, nil
}

// Write reports the number of rows it would have written.
func (d *Demo) Write(ctx context.Context, values [][]any) (int, error) {
	logging.Ctx(ctx).Info().
		Str("target", targetName).
		Bool("demo", true).
		Int("rows", len(values)).
		Msg("Write skipped in demo mode")
	return len(values), nil
}

// AppendRow logs the append and discards the row.
func (d *Demo) AppendRow(ctx context.Context, row []any) error {
	logging.Ctx(ctx).Info().
		Str("target", targetName).
		Bool("demo", true).
		Msg("Append skipped in demo mode")
	return nil
}
