package models

// AdviceRequest is the input to the health-advice composer. The 24h delta
// is a pointer because it may be unknown (short series, no snapshot
// baseline), which is distinct from a delta of exactly zero.
type AdviceRequest struct {
	CurrentPressure   float64
	PressureChange24h *float64
	WeatherCondition  string
}
