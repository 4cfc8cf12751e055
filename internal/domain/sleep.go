package domain

type SleepSource string

const (
	SleepSourcePredicted SleepSource = "predicted"
	SleepSourceBaseline  SleepSource = "baseline"
	SleepSourceForced    SleepSource = "forced"
)

type SleepOpportunity struct {
	StartMinutes float64     `json:"startMinutes"`
	EndMinutes   float64     `json:"endMinutes"`
	Source       SleepSource `json:"source"`
}

func (s SleepOpportunity) DurationMinutes() float64 {
	return s.EndMinutes - s.StartMinutes
}
