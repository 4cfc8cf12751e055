package domain

// FlightLeg 航段信息，引擎不解析，只是原样透传给前端展示
type FlightLeg struct {
	FlightNumber   string `json:"flightNumber"`
	Departure      string `json:"departure"`
	Arrival        string `json:"arrival"`
	DepartureLocal string `json:"departureLocal"`
	ArrivalLocal   string `json:"arrivalLocal"`
}

// DutyPeriod 一段连续的值勤
// 开始和结束都是从行程起点开始计算的分钟数（单调递增），而不是当天的钟点
type DutyPeriod struct {
	StartMinutes   float64     `json:"startMinutes"`
	EndMinutes     float64     `json:"endMinutes"`
	Legs           []FlightLeg `json:"legs"`
	LocalStartHour float64     `json:"localStartHour"` // 0.0 ~ 24.0，只用于睡眠预测
	LocalEndHour   float64     `json:"localEndHour"`
}

func (d DutyPeriod) DurationMinutes() float64 {
	return d.EndMinutes - d.StartMinutes
}

// Timeline 经过校验的值勤时间轴
type Timeline struct {
	AnchorLocalHour float64      `json:"anchorLocalHour"` // 第 0 分钟时基地所在地的钟点
	Duties          []DutyPeriod `json:"duties"`
}

func (tl *Timeline) StartMinutes() float64 {
	return tl.Duties[0].StartMinutes
}

func (tl *Timeline) EndMinutes() float64 {
	return tl.Duties[len(tl.Duties)-1].EndMinutes
}
