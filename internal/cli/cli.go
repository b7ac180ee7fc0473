// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/options"
)

const (
	defaultScale = 10
	maxScale     = 40
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.Usage = func() {} // printed by UsageError.ShowUsage
	var opts options.Program
	readOptionFlags(flags, &opts)
	readQuirkFlags(flags, &opts.QuirkFlags)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}
	if opts.Input == "" {
		return opts, &UsageError{flags: flags}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}

	opts.Quirks = strings.ToLower(opts.Quirks)
	if _, err := chip8.QuirksPreset(opts.Quirks); err != nil {
		return fmt.Errorf("unsupported quirks preset: %w", err)
	}

	if opts.ClockHz < emulator.MinClockHz || opts.ClockHz > emulator.MaxClockHz {
		return fmt.Errorf("unsupported clock rate: %d. Valid range: %d-%d",
			opts.ClockHz, emulator.MinClockHz, emulator.MaxClockHz)
	}

	if opts.Scale < 1 || opts.Scale > maxScale {
		return fmt.Errorf("unsupported window scale: %d. Valid range: 1-%d", opts.Scale, maxScale)
	}

	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Frontend, "f", options.FrontendTerminal,
		"frontend to run the ROM with ("+strings.Join(options.Frontends, "/")+")")
	flags.IntVar(&opts.ClockHz, "hz", emulator.DefaultClockHz, "instructions executed per second")
	flags.Uint64Var(&opts.MaxCycles, "cycles", 0, "stop after executing the given number of instructions, 0 for no limit")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 for a random seed")
	flags.IntVar(&opts.Scale, "scale", defaultScale, "pixel scale factor of the window frontend")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the sound output")
	flags.BoolVar(&opts.Dump, "dump", false, "print the framebuffer to the console when the emulation ends")
	flags.BoolVar(&opts.Statsview, "statsview", false, "serve runtime statistics charts, requires a build with the statsview tag")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging and instruction tracing")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readQuirkFlags(flags *flag.FlagSet, opts *options.QuirkFlags) {
	flags.StringVar(&opts.Quirks, "quirks", chip8.PresetDefault,
		"quirks preset to emulate ("+strings.Join(chip8.QuirksPresets(), "/")+")")
	flags.BoolVar(&opts.ShiftInPlace, "shift-vx", false, "8XY6/8XYE shift VX in place instead of copying VY")
	flags.BoolVar(&opts.JumpWithVX, "jump-vx", false, "BNNN adds VX instead of V0 to the jump target")
	flags.BoolVar(&opts.IndexOverflowFlag, "index-overflow", false, "FX1E sets VF when I leaves the address space")
	flags.BoolVar(&opts.IncrementIndex, "increment-index", false, "FX55/FX65 advance I past the transferred registers")
	flags.BoolVar(&opts.ResetFlagOnLogic, "logic-vf", false, "8XY1/8XY2/8XY3 reset VF to 0")
}
