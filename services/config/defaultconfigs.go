package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
//
// Absent monitor keys keep their compiled-in defaults, see
// types.DefaultMonitorConfig.
// -----------------------------------------------------------------------------

const cfgPico = `{
  "monitor": {
      "tick_ms": 50,
      "env_refresh_ms": 4000,
      "light_refresh_ms": 3000
  }
}`

const cfgSim = `{
  "monitor": {
      "tick_ms": 20
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"sim":  []byte(cfgSim),
}
