package schedule_test

import (
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsync/dealsync/internal/schedule"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
)

func TestNewRejectsMalformedSpec(t *testing.T) {
	for _, spec := range []string{"", "not a cron", "61 * * * *", "* * * *"} {
		_, err := schedule.New(spec, func() {})
		require.Error(t, err, "spec %q", spec)

		var schedErr *errors.ScheduleError
		require.True(t, stderrors.As(err, &schedErr))
		assert.Equal(t, spec, schedErr.Expression)
	}
}

func TestNewAcceptsStandardSpecs(t *testing.T) {
	for _, spec := range []string{"0 7 * * *", "*/5 * * * *", "@hourly"} {
		s, err := schedule.New(spec, func() {})
		require.NoError(t, err, "spec %q", spec)
		assert.Equal(t, spec, s.Spec())
		assert.Len(t, s.Entries(), 1)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, schedule.Validate("0 7 * * *"))
	assert.NoError(t, schedule.Validate("@daily"))

	err := schedule.Validate("61 * * * *")
	require.Error(t, err)

	var schedErr *errors.ScheduleError
	require.True(t, stderrors.As(err, &schedErr))
	assert.Equal(t, "61 * * * *", schedErr.Expression)
}

func TestNextRunAfterStart(t *testing.T) {
	logging.DisableLoggingForTest(t)

	s, err := schedule.New("0 7 * * *", func() {})
	require.NoError(t, err)

	assert.True(t, s.NextRun().IsZero(), "next run is unknown before Start")

	s.Start()
	defer s.Stop()

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(utc.Time{Time: time.Now().Add(-time.Minute)}))
}

func TestJobRunsAndStopWaits(t *testing.T) {
	logging.DisableLoggingForTest(t)

	var runs atomic.Int32
	s, err := schedule.New("@every 10ms", func() { runs.Add(1) })
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 5*time.Millisecond)

	ctx := s.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestPanickingJobDoesNotKillRunner(t *testing.T) {
	logs := logging.CaptureLoggingForTest(t)

	var runs atomic.Int32
	s, err := schedule.New("@every 10ms", func() {
		if runs.Add(1) == 1 {
			panic("job exploded")
		}
	})
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 5*time.Millisecond,
		"runner must keep ticking after a panicking run")

	// Wait for in-flight jobs so the recovery log is fully written.
	select {
	case <-s.Stop().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	assert.True(t, logs.Contains("Scheduled job panicked"))
	assert.True(t, logs.Contains("job exploded"))
}
