package main

// Flag names. Flags that override a config key are bound to it by
// bindFlag.
const (
	// Global flags
	FlagConfig    = "config"
	FlagVerbose   = "verbose"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagLogFile   = "log-file"

	// run and sim flags
	FlagTransport = "transport"
	FlagDisplay   = "display"
	FlagCadence   = "cadence"

	// run flags
	FlagBus    = "bus"
	FlagButton = "button"

	// sim flags
	FlagHeartRate = "heart-rate"
	FlagNoise     = "noise"

	// listen flags
	FlagWindow = "window"
)

// flagKeys maps flags to the config keys they override.
var flagKeys = map[string]string{
	FlagLogLevel:  "log.level",
	FlagLogFormat: "log.format",
	FlagLogFile:   "log.file",
	FlagTransport: "transport.kind",
	FlagDisplay:   "display.kind",
	FlagCadence:   "loop.cadence",
	FlagBus:       "sensor.bus",
	FlagButton:    "button.pin",
	FlagHeartRate: "sim.heart_rate",
	FlagNoise:     "sim.noise",
	FlagWindow:    "receiver.window",
}
