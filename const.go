package pulsewear

// Signal thresholds.
const (
	// contactFloor is the lowest red intensity that counts as skin contact.
	contactFloor = 50000

	// bpmScale converts a beat interval in ms to beats per minute. The beat
	// detector reports edges on paired samples, hence 2 * 60000.
	bpmScale = 120000
	minBPM   = 30
	maxBPM   = 200

	// stress bands on the interval difference, in ms.
	stressLowDiff = 50
	stressMedDiff = 20

	// health alert bands on the average BPM.
	restAbove    = 100
	standUpAbove = 20
	standUpBelow = 50
)

// Timings in ms.
const (
	debounceMs  = 50
	telemetryMs = 200
	refreshMs   = 750
	flashMs     = 750
	greetingMs  = 3000
)

// historySize is the number of beats kept by the rate and interval
// histories.
const historySize = 4

// Default sensor acquisition parameters.
const (
	defaultLEDCurrent    = 7.2 // mA, 0x24
	defaultSampleAverage = 4
	defaultSampleRate    = 400  // Hz
	defaultPulseWidth    = 411  // us
	defaultADCRange      = 4096 // nA
)
