package types

// MonitorConfig carries every policy constant of the monitor. Defaults mirror
// the deployed board; embedded config may override any field via
// config/monitor (see services/config).
type MonitorConfig struct {
	SecretPIN   string `json:"secret_pin"`
	MaxAttempts int    `json:"max_attempts"`

	// Environmental safety window.
	TempMinC  float32 `json:"temp_min_c"`
	TempMaxC  float32 `json:"temp_max_c"`
	HumMinPct float32 `json:"hum_min_pct"`
	HumMaxPct float32 `json:"hum_max_pct"`

	// Illuminance alert bounds and photoresistor calibration.
	LuxLow  float32 `json:"lux_low"`
	LuxHigh float32 `json:"lux_high"`
	RL10    float32 `json:"rl10"`  // kΩ at 10 lx
	Gamma   float32 `json:"gamma"` // log-log slope

	// Display refresh debounce per state, in ms since last transition.
	EnvRefreshMs   uint32 `json:"env_refresh_ms"`
	LightRefreshMs uint32 `json:"light_refresh_ms"`

	// Indicator hold durations.
	WelcomeHoldMs uint32 `json:"welcome_hold_ms"`
	LockoutHoldMs uint32 `json:"lockout_hold_ms"`
	EventHoldMs   uint32 `json:"event_hold_ms"`

	TickMs uint32 `json:"tick_ms"`

	// Consecutive env-sensor failures tolerated before escalating to Alarm.
	SensorFailLimit int `json:"sensor_fail_limit"`

	// FailSafeHold restores the blocking Alarm poll loop: the controller
	// does not return to the tick loop until readings recover, and the
	// keypad is unresponsive for the duration.
	FailSafeHold bool `json:"fail_safe_hold"`
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		SecretPIN:   "0690",
		MaxAttempts: 3,

		TempMinC:  10,
		TempMaxC:  40,
		HumMinPct: 5,
		HumMaxPct: 60,

		LuxLow:  200,
		LuxHigh: 700,
		RL10:    50,
		Gamma:   0.7,

		EnvRefreshMs:   4000,
		LightRefreshMs: 3000,

		WelcomeHoldMs: 1000,
		LockoutHoldMs: 2000,
		EventHoldMs:   1000,

		TickMs: 50,

		SensorFailLimit: 3,
		FailSafeHold:    false,
	}
}
