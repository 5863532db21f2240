package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
)

const (
	serviceNumberTag = "NSN"
	maxSequence      = 9999
)

// SequenceSource 查询某个前缀下当前最大的服务单号
type SequenceSource interface {
	LatestServiceNumber(ctx context.Context, prefix string) (string, error)
}

// ServiceNumberGenerator 生成 NSN-{YY}{A-L}-{NNNN} 格式的服务单号，序号按月重置
type ServiceNumberGenerator struct {
	source SequenceSource
	clock  clock.Clock
}

// NewServiceNumberGenerator 创建服务单号生成器
func NewServiceNumberGenerator(source SequenceSource, clk clock.Clock) *ServiceNumberGenerator {
	return &ServiceNumberGenerator{source: source, clock: clk}
}

// ServiceNumberPrefix 返回 t 所在年月（UTC）的单号前缀，例如 2025 年 1 月为 NSN-25A
func ServiceNumberPrefix(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s-%02d%c", serviceNumberTag, t.Year()%100, 'A'+rune(t.Month()-1))
}

// Next 计算下一个单号。只读不写，唯一性由存储的唯一索引保证
func (g *ServiceNumberGenerator) Next(ctx context.Context) (string, error) {
	prefix := ServiceNumberPrefix(g.clock.Now())

	latest, err := g.source.LatestServiceNumber(ctx, prefix)
	if err != nil {
		return "", errors.Annotate(err, "look up latest service number")
	}

	seq := 1
	if latest != "" {
		n, err := parseSequence(latest, prefix)
		if err != nil {
			return "", err
		}
		seq = n + 1
	}
	if seq > maxSequence {
		return "", errors.NewQuotaLimitExceeded(nil,
			fmt.Sprintf("service number sequence %s exhausted at %d", prefix, maxSequence))
	}
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}

// parseSequence 解析末尾 4 位序号；格式不符说明数据已损坏，不能从 1 重新开始
func parseSequence(number, prefix string) (int, error) {
	suffix, ok := strings.CutPrefix(number, prefix+"-")
	if !ok || len(suffix) != 4 {
		return 0, errors.Errorf("corrupt service number %q for prefix %s", number, prefix)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, errors.Errorf("corrupt service number %q for prefix %s", number, prefix)
	}
	return n, nil
}
