package fatigue

import (
	"context"
	"fmt"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// AnalyzeBatch 并发分析多个互不相关的行程，结果顺序与输入一致
// 单个行程内部始终是顺序计算的
func AnalyzeBatch(ctx context.Context, engine *Engine, timelines []*domain.Timeline, workers int) ([]*Result, error) {
	results := make([]*Result, len(timelines))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, tl := range timelines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := engine.Analyze(tl)
			if err != nil {
				return fmt.Errorf("第 %d 个行程分析失败: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
