package query

import "hermannm.dev/enumnames"

// Freq is the calendar interval that time-series operations bucket rows into.
type Freq int8

const (
	FreqDaily Freq = iota + 1
	FreqWeekly
	FreqMonthly
)

var freqMap = enumnames.NewMap(map[Freq]string{
	FreqDaily:   "D",
	FreqWeekly:  "W",
	FreqMonthly: "M",
})

func (freq Freq) IsValid() bool {
	return freqMap.ContainsEnumValue(freq)
}

func (freq Freq) String() string {
	return freqMap.GetNameOrFallback(freq, "[INVALID FREQ]")
}

func (freq Freq) MarshalJSON() ([]byte, error) {
	return freqMap.MarshalToNameJSON(freq)
}

func (freq *Freq) UnmarshalJSON(bytes []byte) error {
	return freqMap.UnmarshalFromNameJSON(bytes, freq)
}

// ParseFreq parses the 'freq' request parameter, defaulting to daily buckets when
// blank.
func ParseFreq(token string) (Freq, error) {
	switch token {
	case "", "D":
		return FreqDaily, nil
	case "W":
		return FreqWeekly, nil
	case "M":
		return FreqMonthly, nil
	default:
		return 0, InvalidFilterValueError{Param: "freq", Reason: "must be one of 'D', 'W', 'M'"}
	}
}
