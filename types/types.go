package types

// ---- Common monitor state (retained) ----

// MonitorState is published retained at monitor/state on every transition.
type MonitorState struct {
	State string `json:"state"` // e.g. "locked", "environmental", "alarm"
	TSms  int64  `json:"ts_ms"`
}

// Link is the health reported for a sensor channel.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

// ChannelStatus is published retained at monitor/status/<channel>.
type ChannelStatus struct {
	Link  Link   `json:"link"`
	TSms  int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"` // machine-readable short code
}

// ---- Reading payloads ----
// Fixed-point, small types to suit TinyGo.

type EnvValue struct {
	// Tenths of °C (e.g. 253 => 25.3°C) and hundredths of %RH.
	DeciC  int16  `json:"deci_c"`
	RHx100 uint16 `json:"rh_x100"`
	TSms   int64  `json:"ts_ms"`
}

type LightValue struct {
	// Tenths of lux (e.g. 4503 => 450.3 lx).
	Lux10 uint32 `json:"lux10"`
	TSms  int64  `json:"ts_ms"`
}

type PinValue struct {
	Active bool  `json:"active"`
	TSms   int64 `json:"ts_ms"`
}

// ---- Access gate events (non-retained) ----

type AccessEvent struct {
	Granted bool   `json:"granted"`
	Reason  string `json:"reason"` // "pin_ok", "pin_mismatch", "locked_out"
	Attempt int    `json:"attempt"`
	TSms    int64  `json:"ts_ms"`
}

// Heartbeat is published retained at heartbeat once per interval.
type Heartbeat struct {
	Seq      uint32 `json:"seq"`
	UptimeMs int64  `json:"uptime_ms"`
}

// Generic replies
type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
