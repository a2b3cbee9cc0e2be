package archive

import (
	"context"
	"fmt"

	"github-resume-monitor/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresArchive 实现了 port.Archive 接口
// 每次分析运行记一行摘要，定时运行之间靠它做通知去重
type PostgresArchive struct {
	db *gorm.DB
}

// NewPostgresArchive 初始化数据库连接并自动迁移表结构
func NewPostgresArchive(dsn string) (*PostgresArchive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// AutoMigrate 自动建表，字段变了也会自动更新
	if err := db.AutoMigrate(&domain.RunRecord{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &PostgresArchive{db: db}, nil
}

// SaveRun 保存一次运行的摘要
func (a *PostgresArchive) SaveRun(ctx context.Context, run *domain.RunRecord) error {
	return a.db.WithContext(ctx).Create(run).Error
}

// MarkAsNotified 标记该次运行已经推送过通知
func (a *PostgresArchive) MarkAsNotified(ctx context.Context, runID uint) error {
	return a.db.WithContext(ctx).Model(&domain.RunRecord{}).
		Where("id = ?", runID).
		Update("already_notified", true).Error
}

// LastRun 取最近一次运行的记录，没有记录时返回 nil
func (a *PostgresArchive) LastRun(ctx context.Context) (*domain.RunRecord, error) {
	var run domain.RunRecord
	err := a.db.WithContext(ctx).
		Order("generated_at desc").
		Limit(1).
		Find(&run).Error
	if err != nil {
		return nil, err
	}
	if run.ID == 0 {
		return nil, nil
	}
	return &run, nil
}
