package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@every 1h", &countingJob{}))
	require.NoError(t, s.AddJob("*/5 * * * *", &countingJob{}))
	assert.Equal(t, 2, s.JobCount())

	assert.Error(t, s.AddJob("every now and then", &countingJob{}))
	assert.Equal(t, 2, s.JobCount())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	assert.EqualError(t, s.RunNow(job), "boom")
	assert.Equal(t, 1, job.runs)

	// run swallows the error after logging it
	s.run(job)
	assert.Equal(t, 2, job.runs)
}

type recordingObserver struct {
	runs map[string][]bool
}

func (o *recordingObserver) ObserveJobRun(job string, ok bool) {
	o.runs[job] = append(o.runs[job], ok)
}

func TestScheduler_ObservesScheduledRuns(t *testing.T) {
	s := New(zerolog.Nop())
	observer := &recordingObserver{runs: map[string][]bool{}}
	s.SetObserver(observer)

	job := &countingJob{}
	s.run(job)
	job.err = errors.New("boom")
	s.run(job)

	assert.Equal(t, []bool{true, false}, observer.runs["counting"])
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("@daily", &countingJob{}))

	assert.NotPanics(t, func() {
		s.Start()
		s.Stop()
	})
}
