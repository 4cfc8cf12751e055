package fatigue

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

// NewAnalysis 将一次分析整理为可以保存的记录
// 参数原样保存，之后可以用相同的时间轴和参数重新算出效能样本
func NewAnalysis(userID int64, name string, p Parameters, res *Result) (*domain.FatigueAnalysis, error) {
	parameters, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return &domain.FatigueAnalysis{
		RunID:            uuid.New(),
		UserID:           userID,
		Name:             name,
		Timeline:         *res.Timeline,
		Parameters:       parameters,
		Sleeps:           res.Sleeps,
		Summary:          res.Summary,
		MinEffectiveness: res.Summary.MinEffectiveness,
		OverallRiskLevel: res.Summary.OverallRiskLevel,
	}, nil
}

// EngineFor 用记录中保存的参数创建引擎
func EngineFor(a *domain.FatigueAnalysis) (*Engine, error) {
	var p Parameters
	if err := json.Unmarshal(a.Parameters, &p); err != nil {
		return nil, err
	}
	return New(p)
}

// Replay 用保存下来的参数重新分析记录中的时间轴
func Replay(a *domain.FatigueAnalysis) (*Result, error) {
	engine, err := EngineFor(a)
	if err != nil {
		return nil, err
	}
	return engine.Analyze(&a.Timeline)
}
