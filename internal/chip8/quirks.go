package chip8

import (
	"fmt"
	"sort"
	"strings"
)

// Quirks selects between behaviors that differ across CHIP-8 interpreters.
// The zero value is the default instruction set behavior.
type Quirks struct {
	ShiftInPlace      bool // 8XY6/8XYE shift Vx instead of Vy
	JumpWithVX        bool // BXNN jumps to XNN + Vx instead of NNN + V0
	IndexOverflowFlag bool // FX1E sets VF when I + Vx leaves the 12 bit address space
	IncrementIndex    bool // FX55/FX65 leave I pointing after the last transferred byte
	ResetFlagOnLogic  bool // 8XY1/8XY2/8XY3 set VF to 0
}

// Quirks preset names.
const (
	PresetDefault = "default"
	PresetCosmac  = "cosmac"
	PresetModern  = "modern"
)

var presets = map[string]Quirks{
	PresetDefault: {},
	PresetCosmac: {
		IncrementIndex:   true,
		ResetFlagOnLogic: true,
	},
	PresetModern: {
		ShiftInPlace: true,
		JumpWithVX:   true,
	},
}

// QuirksPreset returns the quirks of the named preset.
func QuirksPreset(name string) (Quirks, error) {
	q, ok := presets[strings.ToLower(name)]
	if !ok {
		return Quirks{}, fmt.Errorf("%w '%s', valid options: %s",
			ErrUnknownQuirksPreset, name, strings.Join(QuirksPresets(), ", "))
	}
	return q, nil
}

// QuirksPresets returns the sorted list of preset names.
func QuirksPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
