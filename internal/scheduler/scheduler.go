package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"github-resume-monitor/internal/common"
	"github-resume-monitor/internal/config"
)

// Job 一次监控任务，forced 表示无视通知阈值强制发送
type Job func(ctx context.Context, forced bool) error

// Scheduler 按配置的时间表驱动监控任务
// 同一时刻只允许一个任务在跑，触发时若上一轮未结束则跳过
type Scheduler struct {
	cron    *cron.Cron
	job     Job
	running sync.Mutex
}

// New 根据 schedule 配置注册定时任务
func New(sched config.Schedule, job Job) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		job:  job,
	}

	if sched.DailyCheck != "" {
		spec, err := dailySpec(sched.DailyCheck)
		if err != nil {
			return nil, err
		}
		if _, err := s.cron.AddFunc(spec, func() { s.trigger("每日检查", false) }); err != nil {
			return nil, common.WrapError(common.ErrCodeConfig, "注册每日任务失败", err)
		}
	}

	if sched.WeeklyReport != "" {
		spec, err := weeklySpec(sched.WeeklyReport)
		if err != nil {
			return nil, err
		}
		if _, err := s.cron.AddFunc(spec, func() { s.trigger("每周报告", true) }); err != nil {
			return nil, common.WrapError(common.ErrCodeConfig, "注册每周任务失败", err)
		}
	}

	if sched.CheckIntervalHours > 0 {
		spec := fmt.Sprintf("@every %dh", sched.CheckIntervalHours)
		if _, err := s.cron.AddFunc(spec, func() { s.trigger("周期检查", false) }); err != nil {
			return nil, common.WrapError(common.ErrCodeConfig, "注册周期任务失败", err)
		}
	}

	return s, nil
}

// Start 先立即执行一轮，再启动定时器，阻塞到 ctx 取消
func (s *Scheduler) Start(ctx context.Context) {
	log.Println("🚀 调度器启动，先执行一次初始检查")
	s.trigger("初始检查", false)

	s.cron.Start()
	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Println("🛑 调度器已停止")
}

// trigger 串行化执行：上一轮还在跑就跳过本次触发
func (s *Scheduler) trigger(name string, forced bool) {
	if !s.running.TryLock() {
		log.Printf("⚠️ 上一轮任务尚未结束，跳过本次 %s", name)
		return
	}
	defer s.running.Unlock()

	log.Printf("📥 开始执行: %s", name)
	if err := s.job(context.Background(), forced); err != nil {
		log.Printf("❌ %s 执行失败: %v", name, err)
		return
	}
	log.Printf("✅ %s 执行完成", name)
}

// dailySpec 把 "HH:MM" 翻译成每日 cron 表达式
func dailySpec(value string) (string, error) {
	hour, minute, err := parseClock(value)
	if err != nil {
		return "", common.WrapError(common.ErrCodeConfig, "daily_check 格式应为 HH:MM", err)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// weeklySpec 把 "DDD:HH:MM" 翻译成每周 cron 表达式
func weeklySpec(value string) (string, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return "", common.NewError(common.ErrCodeConfig, "weekly_report 格式应为 DDD:HH:MM")
	}
	day := strings.ToUpper(strings.TrimSpace(parts[0]))
	switch day {
	case "MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN":
	default:
		return "", common.NewError(common.ErrCodeConfig, "weekly_report 星期缩写无效: "+day)
	}
	hour, minute, err := parseClock(parts[1])
	if err != nil {
		return "", common.WrapError(common.ErrCodeConfig, "weekly_report 格式应为 DDD:HH:MM", err)
	}
	return fmt.Sprintf("%d %d * * %s", minute, hour, day), nil
}

func parseClock(value string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("无效的时间: %s", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("时间超出范围: %s", value)
	}
	return hour, minute, nil
}
