package handler

import (
	"errors"
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/fatigue"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/utils"
)

const defaultAnalysisName = "未命名行程"

// dutyRequest 支持两种写法：day + start/end 钟点，或者直接给出从第 0 天午夜开始的分钟数
type dutyRequest struct {
	Day            *int               `json:"day" validate:"omitempty,min=0"`
	Start          string             `json:"start" validate:"required_with=Day,omitempty,clock"`
	End            string             `json:"end" validate:"required_with=Day,omitempty,clock"`
	StartMinutes   *float64           `json:"startMinutes" validate:"required_without=Day"`
	EndMinutes     *float64           `json:"endMinutes" validate:"required_without=Day"`
	LocalStartHour *float64           `json:"localStartHour" validate:"omitempty,min=0,max=24"`
	LocalEndHour   *float64           `json:"localEndHour" validate:"omitempty,min=0,max=24"`
	Legs           []domain.FlightLeg `json:"legs" validate:"max=20"`
}

type tripRequest struct {
	Name            string        `json:"name" validate:"max=100"`
	AnchorLocalHour float64       `json:"anchorLocalHour" validate:"min=0,lt=24"`
	Duties          []dutyRequest `json:"duties" validate:"required,min=1,dive"`
}

type parametersRequest struct {
	CommuteMinutes           *float64 `json:"commuteMinutes" validate:"omitempty,min=0,max=600"`
	MaxSleepMinutes          *float64 `json:"maxSleepMinutes" validate:"omitempty,gt=0,max=1440"`
	MinSleepMinutes          *float64 `json:"minSleepMinutes" validate:"omitempty,min=0,max=1440"`
	ForbiddenZoneStartHour   *float64 `json:"forbiddenZoneStartHour" validate:"omitempty,min=0,lt=24"`
	ForbiddenZoneEndHour     *float64 `json:"forbiddenZoneEndHour" validate:"omitempty,min=0,lt=24"`
	DefaultBedtimeHour       *float64 `json:"defaultBedtimeHour" validate:"omitempty,min=0,lt=24"`
	InitialReservoirFraction *float64 `json:"initialReservoirFraction" validate:"omitempty,min=0,max=1"`
	StepMinutes              *float64 `json:"stepMinutes" validate:"omitempty,gt=0,max=60"`
	InertiaWindowMinutes     *float64 `json:"inertiaWindowMinutes" validate:"omitempty,min=0,max=600"`
	RiskThreshold            *float64 `json:"riskThreshold" validate:"omitempty,min=0,max=100"`
}

type sleepRequest struct {
	StartMinutes float64 `json:"startMinutes"`
	EndMinutes   float64 `json:"endMinutes" validate:"gtfield=StartMinutes"`
}

type analysisRequest struct {
	tripRequest
	Parameters     *parametersRequest `json:"parameters"`
	ForcedSleeps   []sleepRequest     `json:"forcedSleeps" validate:"max=50,dive"`
	IncludeSamples bool               `json:"includeSamples"`
}

type batchAnalysisRequest struct {
	Parameters *parametersRequest `json:"parameters"`
	Trips      []tripRequest      `json:"trips" validate:"required,min=1,dive"`
	Save       bool               `json:"save"`
}

func (req *tripRequest) name() string {
	if req.Name == "" {
		return defaultAnalysisName
	}
	return req.Name
}

// timeline 将请求转换为经过校验的时间轴，同一个行程内不能混用两种写法
func (req *tripRequest) timeline() (*domain.Timeline, error) {
	if len(req.Duties) == 0 {
		return nil, fatigue.ErrEmptyInput
	}

	if req.Duties[0].Day != nil {
		if req.AnchorLocalHour != 0 {
			// 钟点写法的分钟数从第 0 天当地午夜算起，锚点只能是 0
			return nil, errors.New("使用钟点写法时 anchorLocalHour 必须为 0")
		}
		duties := make([]fatigue.ClockDuty, 0, len(req.Duties))
		for i, d := range req.Duties {
			if d.Day == nil {
				return nil, fmt.Errorf("第 %d 段值勤: 同一个行程不能混用钟点和分钟两种写法", i+1)
			}
			start, err := utils.ParseClockHour(d.Start)
			if err != nil {
				return nil, fmt.Errorf("第 %d 段值勤: %w", i+1, err)
			}
			end, err := utils.ParseClockHour(d.End)
			if err != nil {
				return nil, fmt.Errorf("第 %d 段值勤: %w", i+1, err)
			}
			duties = append(duties, fatigue.ClockDuty{
				DayOffset: *d.Day,
				StartHour: start,
				EndHour:   end,
				Legs:      d.Legs,
			})
		}
		return fatigue.NormalizeClockDuties(duties)
	}

	periods := make([]domain.DutyPeriod, 0, len(req.Duties))
	for i, d := range req.Duties {
		if d.Day != nil {
			return nil, fmt.Errorf("第 %d 段值勤: 同一个行程不能混用钟点和分钟两种写法", i+1)
		}
		if d.StartMinutes == nil || d.EndMinutes == nil {
			return nil, fmt.Errorf("第 %d 段值勤: 缺少开始或结束时间", i+1)
		}

		// 没有给出当地钟点时按基地时间推算
		localStart := fatigue.LocalHour(req.AnchorLocalHour, *d.StartMinutes)
		if d.LocalStartHour != nil {
			localStart = *d.LocalStartHour
		}
		localEnd := fatigue.LocalHour(req.AnchorLocalHour, *d.EndMinutes)
		if d.LocalEndHour != nil {
			localEnd = *d.LocalEndHour
		}

		periods = append(periods, domain.DutyPeriod{
			StartMinutes:   *d.StartMinutes,
			EndMinutes:     *d.EndMinutes,
			Legs:           d.Legs,
			LocalStartHour: localStart,
			LocalEndHour:   localEnd,
		})
	}
	return fatigue.NormalizeTimeline(req.AnchorLocalHour, periods)
}

// apply 在 base 的基础上覆盖请求中给出的参数，第二个返回值表示是否有任何覆盖
func (req *parametersRequest) apply(base fatigue.Parameters) (fatigue.Parameters, bool) {
	if req == nil {
		return base, false
	}

	p := base
	overridden := false
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
			overridden = true
		}
	}
	set(&p.CommuteMinutes, req.CommuteMinutes)
	set(&p.MaxSleepMinutes, req.MaxSleepMinutes)
	set(&p.MinSleepMinutes, req.MinSleepMinutes)
	set(&p.ForbiddenZoneStartHour, req.ForbiddenZoneStartHour)
	set(&p.ForbiddenZoneEndHour, req.ForbiddenZoneEndHour)
	set(&p.DefaultBedtimeHour, req.DefaultBedtimeHour)
	set(&p.InitialReservoirFraction, req.InitialReservoirFraction)
	set(&p.StepMinutes, req.StepMinutes)
	set(&p.InertiaWindowMinutes, req.InertiaWindowMinutes)
	set(&p.RiskThreshold, req.RiskThreshold)

	return p, overridden
}

func (req *analysisRequest) parameters(base fatigue.Parameters) (fatigue.Parameters, bool) {
	p, overridden := req.Parameters.apply(base)
	if len(req.ForcedSleeps) == 0 {
		return p, overridden
	}

	p.ForcedSleeps = make([]domain.SleepOpportunity, 0, len(req.ForcedSleeps))
	for _, s := range req.ForcedSleeps {
		p.ForcedSleeps = append(p.ForcedSleeps, domain.SleepOpportunity{
			StartMinutes: s.StartMinutes,
			EndMinutes:   s.EndMinutes,
			Source:       domain.SleepSourceForced,
		})
	}
	return p, true
}

// isEngineInputError 引擎返回的错误都是请求本身的问题
func isEngineInputError(err error) bool {
	var timelineErr *fatigue.InvalidTimelineError
	var configErr *fatigue.InvalidConfigurationError
	return errors.Is(err, fatigue.ErrEmptyInput) || errors.As(err, &timelineErr) || errors.As(err, &configErr)
}

func registerClockValidation(validate *validator.Validate, trans ut.Translator) error {
	if err := validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseClockHour(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("clock", trans, func(ut ut.Translator) error {
		return ut.Add("clock", "{0}必须是 HH:MM 格式的钟点", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("clock", fe.Field())
		return t
	})
}
