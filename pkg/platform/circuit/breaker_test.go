package circuit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is one Record call and the state expected right after it.
type step struct {
	fail     bool
	wantOpen bool
	change   StateChange
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "opens on the threshold failure",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true},
				{fail: true},
				{fail: true, wantOpen: true, change: StateChange{Opened: true}},
				{fail: true, wantOpen: true},
			},
		},
		{
			name: "success while closed resets the failure run",
			opts: []Option{WithFailureThreshold(2)},
			steps: []step{
				{fail: true},
				{},
				{fail: true},
				{fail: true, wantOpen: true, change: StateChange{Opened: true}},
			},
		},
		{
			name: "closes after the success run",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantOpen: true, change: StateChange{Opened: true}},
				{wantOpen: true},
				{change: StateChange{Closed: true}},
			},
		},
		{
			name: "failure while open restarts the success run",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, wantOpen: true, change: StateChange{Opened: true}},
				{wantOpen: true},
				{fail: true, wantOpen: true},
				{wantOpen: true},
				{change: StateChange{Closed: true}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("registry", tt.opts...)
			for i, s := range tt.steps {
				var change StateChange
				if s.fail {
					_, change = b.RecordFailure()
				} else {
					_, change = b.RecordSuccess()
				}
				assert.Equal(t, s.wantOpen, b.IsOpen(), "step %d", i)
				assert.Equal(t, s.change, change, "step %d", i)
			}
		})
	}
}

func TestBreakerRecordResults(t *testing.T) {
	b := New("audit", WithFailureThreshold(1))
	assert.Equal(t, "audit", b.Name())
	assert.Equal(t, StateClosed, b.State())

	useFallback, _ := b.RecordFailure()
	assert.True(t, useFallback)

	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.Equal(t, "closed", b.State().String())
}

func TestBreakerReset(t *testing.T) {
	b := New("registry", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()

	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerAllowProbesAfterCooldown(t *testing.T) {
	b := New("registry", WithFailureThreshold(1), WithCooldown(time.Minute))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(time.Minute)
	assert.True(t, b.Allow(), "one probe after cooldown")
	assert.False(t, b.Allow(), "no second probe in the same window")

	b.RecordFailure()
	now = now.Add(30 * time.Second)
	assert.False(t, b.Allow(), "failed probe waits a full cooldown")

	now = now.Add(30 * time.Second)
	assert.True(t, b.Allow())
	b.RecordSuccess()
	assert.True(t, b.Allow())
	assert.Equal(t, "closed", b.State().String())
}

func TestBreakerConcurrentRecords(t *testing.T) {
	b := New("registry", WithFailureThreshold(50))
	var wg sync.WaitGroup
	opened := make(chan struct{}, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				opened <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(opened)

	assert.True(t, b.IsOpen())
	assert.Len(t, opened, 1, "exactly one caller observes the transition")
}
