package fatigue

import (
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// Engine 疲劳分析引擎，不持有任何可变状态，可以在多个 goroutine 中同时使用
type Engine struct {
	parameters Parameters
}

func New(parameters Parameters) (*Engine, error) {
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		parameters: parameters.clone(),
	}, nil
}

func (e *Engine) Parameters() Parameters {
	return e.parameters.clone()
}

// Analyze 依次执行时间轴校验、睡眠预测、连续模拟和风险汇总
func (e *Engine) Analyze(tl *domain.Timeline) (*Result, error) {
	if tl == nil {
		return nil, ErrEmptyInput
	}

	// 校验时间轴
	normalized, err := NormalizeTimeline(tl.AnchorLocalHour, tl.Duties)
	if err != nil {
		return nil, err
	}
	if err := validateForcedSleeps(normalized, e.parameters.ForcedSleeps); err != nil {
		return nil, err
	}

	// 预测睡眠
	sleeps := PredictSleep(normalized, e.parameters)

	// 连续模拟
	samples, err := Simulate(normalized, sleeps, e.parameters)
	if err != nil {
		return nil, err
	}

	// 汇总
	summary := Aggregate(normalized, samples, e.parameters.RiskThreshold)

	return &Result{
		Timeline: normalized,
		Sleeps:   sleeps,
		Samples:  samples,
		Summary:  summary,
	}, nil
}
