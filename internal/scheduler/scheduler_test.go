package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github-resume-monitor/internal/config"
)

func TestDailySpec(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "标准时间", input: "09:00", expected: "0 9 * * *"},
		{name: "带前导零的分钟", input: "23:05", expected: "5 23 * * *"},
		{name: "缺少冒号", input: "0900", expectError: true},
		{name: "小时越界", input: "24:00", expectError: true},
		{name: "分钟越界", input: "10:60", expectError: true},
		{name: "非数字", input: "ab:cd", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := dailySpec(tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, spec)
			}
		})
	}
}

func TestWeeklySpec(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "周一早上", input: "MON:10:00", expected: "0 10 * * MON"},
		{name: "小写星期", input: "fri:18:30", expected: "30 18 * * FRI"},
		{name: "无效星期", input: "ABC:10:00", expectError: true},
		{name: "缺少时间", input: "MON", expectError: true},
		{name: "时间越界", input: "SUN:25:00", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := weeklySpec(tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, spec)
			}
		})
	}
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(config.Schedule{DailyCheck: "bad"}, func(ctx context.Context, forced bool) error {
		return nil
	})

	assert.Error(t, err)
}

func TestScheduler_Start_RunsInitialCheck(t *testing.T) {
	var mu sync.Mutex
	runs := 0

	sched, err := New(config.Schedule{}, func(ctx context.Context, forced bool) error {
		mu.Lock()
		defer mu.Unlock()
		runs++
		assert.False(t, forced)
		return nil
	})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	// 等初始检查跑完再停
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("调度器没有在取消后退出")
	}
}

func TestScheduler_Trigger_SkipsWhenBusy(t *testing.T) {
	block := make(chan struct{})
	var mu sync.Mutex
	runs := 0

	sched, err := New(config.Schedule{}, func(ctx context.Context, forced bool) error {
		mu.Lock()
		runs++
		mu.Unlock()
		<-block
		return nil
	})
	assert.NoError(t, err)

	go sched.trigger("第一轮", false)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs == 1
	}, time.Second, 10*time.Millisecond)

	// 第一轮还在跑，第二次触发应该被跳过
	sched.trigger("第二轮", false)

	mu.Lock()
	assert.Equal(t, 1, runs)
	mu.Unlock()

	close(block)
}
