// Package config handles application configuration and setup
package config

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateQuirks returns the quirks preset with the individual overrides applied.
func CreateQuirks(opts options.QuirkFlags) (chip8.Quirks, error) {
	preset := opts.Quirks
	if preset == "" {
		preset = chip8.PresetDefault
	}

	q, err := chip8.QuirksPreset(preset)
	if err != nil {
		return chip8.Quirks{}, fmt.Errorf("selecting quirks: %w", err)
	}

	q.ShiftInPlace = q.ShiftInPlace || opts.ShiftInPlace
	q.JumpWithVX = q.JumpWithVX || opts.JumpWithVX
	q.IndexOverflowFlag = q.IndexOverflowFlag || opts.IndexOverflowFlag
	q.IncrementIndex = q.IncrementIndex || opts.IncrementIndex
	q.ResetFlagOnLogic = q.ResetFlagOnLogic || opts.ResetFlagOnLogic
	return q, nil
}

// CreateMachineConfig creates the machine configuration.
func CreateMachineConfig(opts options.Program) (chip8.Config, error) {
	quirks, err := CreateQuirks(opts.QuirkFlags)
	if err != nil {
		return chip8.Config{}, err
	}

	cfg := chip8.Config{
		Quirks: quirks,
	}
	if opts.Seed != 0 {
		cfg.Rand = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}
	return cfg, nil
}

// CreateEmulatorOptions creates the cycle controller options.
func CreateEmulatorOptions(opts options.Program) emulator.Options {
	return emulator.Options{
		ClockHz:   opts.ClockHz,
		MaxCycles: opts.MaxCycles,
		Trace:     opts.Debug,
	}
}
