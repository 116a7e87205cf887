package dealsync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/merge"
)

func TestNewWithDefaults(t *testing.T) {
	ds, err := dealsync.New()
	require.NoError(t, err)
	require.NotNil(t, ds)

	assert.False(t, ds.Running())
	assert.Nil(t, ds.Status(), "no run has happened yet")
	assert.Empty(t, ds.History())
}

func TestNewRejectsUnimplementedStrategy(t *testing.T) {
	for _, strategy := range []merge.Strategy{merge.StrategyMostRecent, merge.StrategyManual} {
		_, err := dealsync.New(dealsync.WithStrategy(strategy))
		assert.ErrorIs(t, err, errors.ErrUnimplementedStrategy, "strategy %q", strategy)
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := dealsync.New(dealsync.WithStrategy("newest-wins"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNewRejectsBadOptionValues(t *testing.T) {
	_, err := dealsync.New(dealsync.WithOpportunitySource(nil))
	assert.Error(t, err)

	_, err = dealsync.New(dealsync.WithIssueSource(nil))
	assert.Error(t, err)

	_, err = dealsync.New(dealsync.WithSheetWriter(nil))
	assert.Error(t, err)

	_, err = dealsync.New(dealsync.WithTimeout(-1 * time.Second))
	assert.Error(t, err)

	_, err = dealsync.New(dealsync.WithHistoryLimit(0))
	assert.Error(t, err)

	_, err = dealsync.New(dealsync.WithLogger(nil))
	assert.Error(t, err)
}
