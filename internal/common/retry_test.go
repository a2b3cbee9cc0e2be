package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo_FirstAttemptSucceeds(t *testing.T) {
	attempts := 0

	err := Do(context.Background(), func() error {
		attempts++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetryBudget(t *testing.T) {
	tests := []struct {
		name        string
		failUntilN  int
		maxRetries  int
		wantSuccess bool
		wantTries   int
	}{
		{
			name:        "第二次尝试成功",
			failUntilN:  2,
			maxRetries:  3,
			wantSuccess: true,
			wantTries:   2,
		},
		{
			name:        "最后一次重试才成功",
			failUntilN:  4,
			maxRetries:  3,
			wantSuccess: true,
			wantTries:   4,
		},
		{
			name:        "重试耗尽仍失败",
			failUntilN:  10,
			maxRetries:  3,
			wantSuccess: false,
			wantTries:   4, // 首次尝试 + 3 次重试
		},
		{
			name:        "零次重试只执行一次",
			failUntilN:  10,
			maxRetries:  0,
			wantSuccess: false,
			wantTries:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0

			err := Do(context.Background(), func() error {
				attempts++
				if attempts < tt.failUntilN {
					return errors.New("拉取失败")
				}
				return nil
			}, WithMaxRetries(tt.maxRetries), WithInitialDelay(time.Millisecond))

			if tt.wantSuccess {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			assert.Equal(t, tt.wantTries, attempts)
		})
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	tests := []struct {
		name         string
		cancelAfter  time.Duration
		initialDelay time.Duration
	}{
		{
			name:         "重试前取消",
			cancelAfter:  5 * time.Millisecond,
			initialDelay: 100 * time.Millisecond,
		},
		{
			name:         "退避等待期间取消",
			cancelAfter:  20 * time.Millisecond,
			initialDelay: 10 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go func() {
				time.Sleep(tt.cancelAfter)
				cancel()
			}()

			attempts := 0
			err := Do(ctx, func() error {
				attempts++
				return errors.New("一直失败")
			}, WithInitialDelay(tt.initialDelay), WithMaxRetries(5))

			assert.Error(t, err)
			assert.ErrorIs(t, err, context.Canceled)
			assert.GreaterOrEqual(t, attempts, 1)
		})
	}
}

func TestDo_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	attempts := 0
	err := Do(ctx, func() error {
		attempts++
		return errors.New("一直失败")
	}, WithInitialDelay(30*time.Millisecond), WithMaxRetries(10))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, attempts, 1)
}

func TestDo_NilFunction(t *testing.T) {
	err := Do(context.Background(), nil)

	assert.EqualError(t, err, "retry: function cannot be nil")
}

func TestDo_BackoffTiming(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		minDuration time.Duration
		maxDuration time.Duration
	}{
		{
			name: "指数退避累计等待",
			opts: []Option{
				WithMaxRetries(3),
				WithInitialDelay(10 * time.Millisecond),
				WithMaxDelay(100 * time.Millisecond),
				WithMultiplier(2.0),
			},
			// 10ms + 20ms + 40ms
			minDuration: 70 * time.Millisecond,
			maxDuration: 150 * time.Millisecond,
		},
		{
			name: "等待封顶于maxDelay",
			opts: []Option{
				WithMaxRetries(5),
				WithInitialDelay(10 * time.Millisecond),
				WithMaxDelay(20 * time.Millisecond),
				WithMultiplier(2.0),
			},
			// 10ms + 20ms×4，不封顶的话是 10+20+40+80+160
			minDuration: 90 * time.Millisecond,
			maxDuration: 180 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			err := Do(context.Background(), func() error {
				return errors.New("一直失败")
			}, tt.opts...)
			elapsed := time.Since(start)

			assert.Error(t, err)
			assert.GreaterOrEqual(t, elapsed, tt.minDuration)
			assert.LessOrEqual(t, elapsed, tt.maxDuration)
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	cfg := &retryConfig{
		initialDelay: 100 * time.Millisecond,
		maxDelay:     500 * time.Millisecond,
		multiplier:   2.0,
	}

	tests := []struct {
		name     string
		attempt  int
		expected time.Duration
	}{
		{"第一次重试用初始间隔", 1, 100 * time.Millisecond},
		{"第二次重试翻倍", 2, 200 * time.Millisecond},
		{"第三次重试再翻倍", 3, 400 * time.Millisecond},
		{"超出上限封顶", 5, 500 * time.Millisecond}, // 不封顶是 1600ms
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, backoffDelay(tt.attempt, cfg))
		})
	}
}

func TestBackoffDelay_LinearMultiplier(t *testing.T) {
	// webhook/fetcher 都用 multiplier 1.0，间隔应保持恒定
	cfg := &retryConfig{
		initialDelay: 500 * time.Millisecond,
		maxDelay:     30 * time.Second,
		multiplier:   1.0,
	}

	for attempt := 1; attempt <= 4; attempt++ {
		assert.Equal(t, 500*time.Millisecond, backoffDelay(attempt, cfg))
	}
}

func TestDo_ErrorWrapping(t *testing.T) {
	originalErr := errors.New("original error")

	err := Do(context.Background(), func() error {
		return originalErr
	}, WithMaxRetries(2), WithInitialDelay(time.Millisecond))

	assert.ErrorIs(t, err, originalErr)
	assert.Contains(t, err.Error(), "retry failed after 3 attempts")
}

func TestDo_InvalidOptionsFallBackToDefaults(t *testing.T) {
	err := Do(context.Background(), func() error {
		return nil
	},
		WithMaxRetries(-1),
		WithInitialDelay(-1),
		WithMaxDelay(-1),
		WithMultiplier(-1),
	)

	assert.NoError(t, err)
}
