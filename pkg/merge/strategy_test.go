package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/merge"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    merge.Strategy
		wantErr bool
	}{
		{name: "crm wins", input: "crm-wins", want: merge.StrategyCRMWins},
		{name: "tracker wins", input: "tracker-wins", want: merge.StrategyTrackerWins},
		{name: "most recent parses", input: "most-recent", want: merge.StrategyMostRecent},
		{name: "manual parses", input: "manual", want: merge.StrategyManual},
		{name: "unknown rejected", input: "coin-flip", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := merge.ParseStrategy(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStrategyValidate(t *testing.T) {
	assert.NoError(t, merge.StrategyCRMWins.Validate())
	assert.NoError(t, merge.StrategyTrackerWins.Validate())

	err := merge.StrategyMostRecent.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsUnimplementedStrategy(err))

	err = merge.StrategyManual.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsUnimplementedStrategy(err))

	err = merge.Strategy("bogus").Validate()
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestStrategiesListsAllAcceptedNames(t *testing.T) {
	names := merge.Strategies()
	require.Len(t, names, 4)
	assert.Contains(t, names, merge.StrategyCRMWins)
	assert.Contains(t, names, merge.StrategyManual)
}

func TestStrategyDescriptions(t *testing.T) {
	for _, s := range merge.Strategies() {
		assert.NotEmpty(t, s.Description())
	}
	assert.Contains(t, merge.StrategyMostRecent.Description(), "not implemented")
}
