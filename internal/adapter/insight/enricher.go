package insight

import (
	"sort"

	"github-resume-monitor/internal/domain"
)

// Enricher 实现了 port.Enricher 接口
// 把哲学画像、AI 能力画像和架构模式汇总打包成报告的 enrichment 块
type Enricher struct {
	philosophy *PhilosophyGenerator
	capability *CapabilityGenerator
}

// NewEnricher 创建增强器
func NewEnricher() *Enricher {
	return &Enricher{
		philosophy: NewPhilosophyGenerator(),
		capability: NewCapabilityGenerator(),
	}
}

// Enrich 生成报告的增强块
func (e *Enricher) Enrich(analyses []*domain.ProjectAnalysis) *domain.Enrichment {
	return &domain.Enrichment{
		Philosophy:          e.philosophy.Generate(analyses),
		AICapability:        e.capability.Generate(analyses),
		ArchitectureSummary: architectureSummary(analyses),
	}
}

// architectureSummary 架构模式标签的频次统计，按频次降序取前 5
func architectureSummary(analyses []*domain.ProjectAnalysis) []domain.NameCount {
	patterns := newCounter()
	for _, analysis := range analyses {
		for _, label := range analysis.Repo.ArchPatterns {
			patterns.add(label)
		}
	}

	result := make([]domain.NameCount, 0, len(patterns.order))
	for _, name := range patterns.order {
		result = append(result, domain.NameCount{Name: name, Count: patterns.counts[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if len(result) > 5 {
		result = result[:5]
	}
	return result
}
