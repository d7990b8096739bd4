package models

// FrequencyPoint represents a single sample of a frequency response curve
type FrequencyPoint struct {
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
	Gain      float64 `json:"gain" doc:"Gain in dB"`
}
