// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/speaker"
	"github.com/retroenv/retrochip8/internal/statsview"
	"github.com/retroenv/retrogolib/log"
)

// Result contains the machine state at the end of an emulation run.
type Result struct {
	Cycles      uint64
	Framebuffer chip8.Framebuffer
}

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Execute loads the ROM and runs it with the frontend selected in the options.
// The framebuffer is written to writer after the run if a dump was requested.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (*Result, error) {
	program, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	fe := p.createFrontend(opts)
	return p.ExecuteWithProgram(ctx, program, opts, fe, writer)
}

// ExecuteWithProgram runs the emulation pipeline with a pre-loaded program image
// and a given frontend. This is useful for testing and programmatic usage.
func (p *Pipeline) ExecuteWithProgram(ctx context.Context, program []byte, opts options.Program,
	fe frontend.Frontend, writer io.Writer) (*Result, error) {

	machineCfg, err := config.CreateMachineConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("creating machine config: %w", err)
	}

	machine := chip8.New(machineCfg)
	if err := machine.Load(program); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	beeper, closeBeeper := p.createBeeper(opts, fe)
	defer closeBeeper()

	emu, err := emulator.New(p.logger, machine, config.CreateEmulatorOptions(opts), emulator.Dependencies{
		Renderer: fe,
		Beeper:   beeper,
	})
	if err != nil {
		return nil, fmt.Errorf("creating emulator: %w", err)
	}

	p.printInfo(opts, program, machineCfg.Quirks)
	if opts.Statsview {
		statsview.Launch(p.logger)
	}

	runErr := p.run(ctx, emu, fe)

	result := &Result{
		Cycles:      emu.Cycles(),
		Framebuffer: emu.Framebuffer(),
	}
	p.logger.Debug("Emulation finished", log.Int("cycles", int(result.Cycles)))

	if opts.Dump {
		if _, err := io.WriteString(writer, result.Framebuffer.String()); err != nil {
			return result, fmt.Errorf("writing framebuffer dump: %w", err)
		}
	}

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// run executes the emulator in the background and the frontend on the
// calling goroutine. When one of them ends, the other one is stopped.
func (p *Pipeline) run(ctx context.Context, emu *emulator.Emulator, fe frontend.Frontend) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	emuErrs := make(chan error, 1)
	go func() {
		emuErrs <- emu.Run(ctx)
		cancel()
	}()

	frontendErr := fe.Run(ctx, emu)
	cancel()
	emuErr := <-emuErrs

	if emuErr != nil && !errors.Is(emuErr, context.Canceled) && !errors.Is(emuErr, context.DeadlineExceeded) {
		return fmt.Errorf("emulating: %w", emuErr)
	}
	if frontendErr != nil {
		return fmt.Errorf("running frontend: %w", frontendErr)
	}
	return nil
}

// createFrontend creates the frontend selected in the options.
func (p *Pipeline) createFrontend(opts options.Program) frontend.Frontend {
	switch opts.Frontend {
	case options.FrontendHeadless:
		return frontend.NewHeadless()
	case options.FrontendWindow:
		return window.New(p.logger, opts.Scale)
	default:
		return terminal.New(p.logger, os.Stdin, os.Stdout)
	}
}

// createBeeper opens the audio output. If no audio device is available the
// frontend signals the sound itself, if it supports it.
func (p *Pipeline) createBeeper(opts options.Program, fe frontend.Frontend) (emulator.Beeper, func()) {
	if opts.Mute || opts.Frontend == options.FrontendHeadless {
		return nil, func() {}
	}

	spk, err := speaker.New(p.logger)
	if err == nil {
		return spk, func() {
			if err := spk.Close(); err != nil {
				p.logger.Error("Closing audio output failed", log.Err(err))
			}
		}
	}

	p.logger.Warn("Audio output not available", log.Err(err))
	if beeper, ok := fe.(emulator.Beeper); ok {
		return beeper, func() {}
	}
	return nil, func() {}
}

// printInfo prints information about the ROM being run.
func (p *Pipeline) printInfo(opts options.Program, program []byte, quirks chip8.Quirks) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.String("frontend", opts.Frontend),
		log.Int("clock_hz", opts.ClockHz),
		log.String("quirks", fmt.Sprintf("%+v", quirks)),
	)
}
