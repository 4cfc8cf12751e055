package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
)

type analysisResponse struct {
	*domain.FatigueAnalysis
	Samples []domain.EffectivenessSample `json:"samples,omitempty"`
}

// engineFor 没有覆盖参数时复用默认引擎
func (h *Handler) engineFor(p fatigue.Parameters, overridden bool) (*fatigue.Engine, error) {
	if !overridden {
		return h.engine, nil
	}
	return fatigue.New(p)
}

func (h *Handler) currentUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.Context().Value(SubCtxKey).(string), 10, 64)
}

// runAnalysis 解析请求并运行引擎，返回的 bool 表示是否已经写过响应
func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request, req *analysisRequest) (*fatigue.Engine, *fatigue.Result, bool) {
	if err := h.readJSON(r, req); err != nil {
		h.badRequest(w, r, err)
		return nil, nil, true
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return nil, nil, true
	}

	tl, err := req.timeline()
	if err != nil {
		h.badRequest(w, r, err)
		return nil, nil, true
	}

	engine, err := h.engineFor(req.parameters(h.engine.Parameters()))
	if err != nil {
		h.badRequest(w, r, err)
		return nil, nil, true
	}

	res, err := h.analyze(engine, tl)
	if err != nil {
		switch {
		case isEngineInputError(err):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return nil, nil, true
	}

	return engine, res, false
}

// PreviewAnalysis 只计算不保存
func (h *Handler) PreviewAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	engine, res, done := h.runAnalysis(w, r, &req)
	if done {
		return
	}

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	a, err := fatigue.NewAnalysis(userID, req.name(), engine.Parameters(), res)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resp := analysisResponse{FatigueAnalysis: a}
	if req.IncludeSamples {
		resp.Samples = res.Samples
	}

	h.successResponse(w, r, "分析成功", resp)
}

func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req analysisRequest
	engine, res, done := h.runAnalysis(w, r, &req)
	if done {
		return
	}

	a, err := fatigue.NewAnalysis(myInfo.ID, req.name(), engine.Parameters(), res)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.CreateAnalyses(a); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 分析已经保存，预警邮件发送失败不影响本次请求
	if err := h.sendFatigueAlert(myInfo, a); err != nil {
		slog.Error("无法发送疲劳预警邮件", "analysis_id", a.ID, "error", err)
	}

	resp := analysisResponse{FatigueAnalysis: a}
	if req.IncludeSamples {
		resp.Samples = res.Samples
	}

	h.successResponse(w, r, "分析已保存", resp)
}

// CreateBatchAnalysis 排班主管一次提交多个行程，使用同一套参数并发分析
func (h *Handler) CreateBatchAnalysis(w http.ResponseWriter, r *http.Request) {
	var req batchAnalysisRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(req.Trips) > h.config.Fatigue.MaxBatchSize {
		h.errorResponse(w, r, fmt.Sprintf("一次最多分析 %d 个行程", h.config.Fatigue.MaxBatchSize))
		return
	}

	timelines := make([]*domain.Timeline, 0, len(req.Trips))
	for i := range req.Trips {
		tl, err := req.Trips[i].timeline()
		if err != nil {
			h.badRequest(w, r, fmt.Errorf("第 %d 个行程: %w", i+1, err))
			return
		}
		timelines = append(timelines, tl)
	}

	engine, err := h.engineFor(req.Parameters.apply(h.engine.Parameters()))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	results, err := fatigue.AnalyzeBatch(r.Context(), engine, timelines, h.config.Fatigue.BatchWorkers)
	if err != nil {
		switch {
		case isEngineInputError(err):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	userID, err := h.currentUserID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	analyses := make([]*domain.FatigueAnalysis, 0, len(results))
	for i, res := range results {
		a, err := fatigue.NewAnalysis(userID, req.Trips[i].name(), engine.Parameters(), res)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		analyses = append(analyses, a)
	}

	if req.Save {
		if err := h.repository.CreateAnalyses(analyses...); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "批量分析成功", analyses)
}

// GetAnalyses 排班主管可以看到所有记录，机组成员只能看到自己的
func (h *Handler) GetAnalyses(w http.ResponseWriter, r *http.Request) {
	var (
		analyses []*domain.FatigueAnalysis
		err      error
	)

	if domain.Role(r.Context().Value(RoleCtxKey).(string)) == domain.RolePlanner {
		analyses, err = h.repository.GetAllAnalyses()
	} else {
		var userID int64
		userID, err = h.currentUserID(r)
		if err == nil {
			analyses, err = h.repository.GetAnalysesByUserID(userID)
		}
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分析记录成功", analyses)
}

func (h *Handler) GetUserAnalyses(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	analyses, err := h.repository.GetAnalysesByUserID(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分析记录成功", analyses)
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AnalysisCtx).(*domain.FatigueAnalysis)
	h.successResponse(w, r, "获取分析记录成功", a)
}

// GetAnalysisSamples 样本没有保存，用记录中的时间轴和参数重新计算
func (h *Handler) GetAnalysisSamples(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AnalysisCtx).(*domain.FatigueAnalysis)

	engine, err := fatigue.EngineFor(a)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	res, err := h.analyze(engine, &a.Timeline)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取效能曲线成功", res.Samples)
}

func (h *Handler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AnalysisCtx).(*domain.FatigueAnalysis)

	if err := h.repository.DeleteAnalysis(a.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除分析记录成功", nil)
}

// riskyDuties 风险等级达到 level 的值勤
func riskyDuties(summary domain.FatigueSummary, level domain.RiskLevel) []domain.DutyDaySummary {
	duties := make([]domain.DutyDaySummary, 0)
	for _, d := range summary.DutyDaySummaries {
		if d.RiskLevel.Severity() >= level.Severity() {
			duties = append(duties, d)
		}
	}
	return duties
}

// sendFatigueAlert 整个行程的风险等级达到配置的预警等级时通知机组成员本人
func (h *Handler) sendFatigueAlert(user *domain.User, a *domain.FatigueAnalysis) error {
	level := h.config.AlertRiskLevel()
	if a.OverallRiskLevel.Severity() < level.Severity() {
		return nil
	}
	if h.mailChannel == nil {
		return errors.New("邮件通道不可用")
	}

	return h.publishMail(domain.MailMessage{
		Type: "fatigue_alert",
		To:   user.Email,
		Data: domain.FatigueAlertMailData{
			FullName:         user.FullName,
			AnalysisID:       a.ID,
			AnalysisName:     a.Name,
			MinEffectiveness: a.MinEffectiveness,
			TimeOfMin:        a.Summary.TimeOfMin,
			OverallRiskLevel: a.OverallRiskLevel,
			RiskyDuties:      riskyDuties(a.Summary, level),
		},
	})
}
