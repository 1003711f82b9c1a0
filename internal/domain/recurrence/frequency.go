package recurrence

import "fmt"

type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

func (f Frequency) String() string {
	return string(f)
}

func NewFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid frequency: %s", s)
	}
	return f, nil
}
