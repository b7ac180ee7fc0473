// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendTerminal = "terminal"
	FrontendWindow   = "window"
	FrontendHeadless = "headless"
)

// Frontends lists all supported frontends.
var Frontends = []string{FrontendHeadless, FrontendTerminal, FrontendWindow}

// Parameters contains file path options.
type Parameters struct {
	Input string // ROM file to run
}

// Flags contains behavior options.
type Flags struct {
	Frontend  string // host adapter for display and input
	ClockHz   int    // instructions per second
	MaxCycles uint64 // stop after this many cycles, 0 for no limit
	Seed      uint64 // random seed for CXNN, 0 for a random seed
	Scale     int    // window pixel scale
	Mute      bool
	Dump      bool // print the final framebuffer after the run
	Statsview bool
	Debug     bool
	Quiet     bool
}

// QuirkFlags contains the quirks preset and individual quirk overrides.
type QuirkFlags struct {
	Quirks            string // preset name
	ShiftInPlace      bool
	JumpWithVX        bool
	IndexOverflowFlag bool
	IncrementIndex    bool
	ResetFlagOnLogic  bool
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	QuirkFlags
}
