package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return nil })
		assert.NoError(t, err)
	}

	assert.Equal(t, StateClosed, cb.State())
	counts := cb.Counts()
	assert.Equal(t, uint32(5), counts.TotalSuccesses)
	assert.Equal(t, uint32(0), counts.TotalFailures)
}

func TestCircuitBreaker_TripsToOpen(t *testing.T) {
	cb := newTestBreaker(time.Minute)
	boom := errors.New("redis: connection refused")

	// 连续3次失败触发熔断
	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, StateOpen, cb.State())

	// 打开状态下快速失败，不调用req
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker(20 * time.Millisecond)
	boom := errors.New("redis: connection refused")

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return boom })
	}
	assert.Equal(t, StateOpen, cb.State())

	// 等待timeout后转半开
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	// 探测成功，恢复关闭状态
	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(20 * time.Millisecond)
	boom := errors.New("redis: connection refused")

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return boom })
	}

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	// 探测失败，转回打开状态
	err := cb.Execute(func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	boom := errors.New("redis: connection refused")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return boom })
	}

	assert.Equal(t, []string{"CLOSED->OPEN"}, transitions)
}
