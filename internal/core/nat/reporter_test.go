package nat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestReporter_Disabled 测试未启用时快照为 disabled 且计数归零
func TestReporter_Disabled(t *testing.T) {
	r := NewTraversalReporter(false)

	// 陈旧计数不得泄漏进快照
	r.RecordAttempt()
	r.RecordFailure()

	v := r.Validate()
	assert.False(t, v.Enabled)
	assert.Equal(t, StatusDisabled, v.Status)
	assert.Zero(t, v.Attempts)
	assert.Zero(t, v.Successes)
	assert.Zero(t, v.Failures)
	assert.Zero(t, v.SuccessRate)
	assert.NotEmpty(t, v.Recommendations)
}

// TestReporter_NotTested 测试启用但无尝试时为 not_tested
func TestReporter_NotTested(t *testing.T) {
	r := NewTraversalReporter(true)

	v := r.Validate()
	assert.True(t, v.Enabled)
	assert.Equal(t, StatusNotTested, v.Status)
	assert.Zero(t, v.Attempts)
	assert.Empty(t, v.Recommendations)
}

// TestReporter_SuccessRateBuckets 测试成功率对应的状态分档
func TestReporter_SuccessRateBuckets(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		successes int
		status    string
	}{
		{"all failing", 10, 0, StatusFailing},
		{"mostly failing", 10, 1, StatusFailing},
		{"unreliable", 10, 3, StatusUnreliable},
		{"barely working", 10, 5, StatusWorking},
		{"all working", 10, 10, StatusWorking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTraversalReporter(true)
			for i := 0; i < tt.attempts; i++ {
				r.RecordAttempt()
				if i < tt.successes {
					r.RecordSuccess()
				} else {
					r.RecordFailure()
				}
			}

			v := r.Validate()
			assert.Equal(t, tt.status, v.Status)
			assert.Equal(t, int64(tt.attempts), v.Attempts)
			assert.Equal(t, int64(tt.successes), v.Successes)
			assert.InDelta(t, float64(tt.successes)/float64(tt.attempts), v.SuccessRate, 1e-9)
			if tt.status == StatusWorking {
				assert.Empty(t, v.Recommendations)
			} else {
				assert.NotEmpty(t, v.Recommendations)
			}
		})
	}
}

// TestReporter_ReenableKeepsCounters 测试重新启用后计数仍然可见
func TestReporter_ReenableKeepsCounters(t *testing.T) {
	r := NewTraversalReporter(true)
	r.RecordAttempt()
	r.RecordSuccess()

	r.SetEnabled(false)
	assert.Equal(t, StatusDisabled, r.Validate().Status)

	r.SetEnabled(true)
	v := r.Validate()
	assert.Equal(t, int64(1), v.Attempts)
	assert.Equal(t, StatusWorking, v.Status)
}

// TestReporter_ConcurrentRecording 测试并发上报计数正确
func TestReporter_ConcurrentRecording(t *testing.T) {
	r := NewTraversalReporter(true)

	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				r.RecordAttempt()
				r.RecordSuccess()
			}
		}()
	}
	wg.Wait()

	v := r.Validate()
	assert.Equal(t, int64(workers*perWorker), v.Attempts)
	assert.Equal(t, int64(workers*perWorker), v.Successes)
	assert.Equal(t, StatusWorking, v.Status)
}
