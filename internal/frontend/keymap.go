package frontend

import "unicode"

// Layout is the host keyboard layout of the 4x4 keypad, top row first.
// The keys occupy the same positions as on the COSMAC VIP keypad.
var Layout = [4][4]rune{
	{'1', '2', '3', '4'},
	{'q', 'w', 'e', 'r'},
	{'a', 's', 'd', 'f'},
	{'z', 'x', 'c', 'v'},
}

// Keypad is the COSMAC VIP keypad, indexed like Layout.
var Keypad = [4][4]int{
	{0x1, 0x2, 0x3, 0xC},
	{0x4, 0x5, 0x6, 0xD},
	{0x7, 0x8, 0x9, 0xE},
	{0xA, 0x0, 0xB, 0xF},
}

var runeKeys = buildRuneKeys()

func buildRuneKeys() map[rune]int {
	keys := make(map[rune]int, 16)
	for row := range Layout {
		for col, r := range Layout[row] {
			keys[r] = Keypad[row][col]
		}
	}
	return keys
}

// KeyForRune returns the keypad key that the host keyboard character maps to.
func KeyForRune(r rune) (int, bool) {
	key, ok := runeKeys[unicode.ToLower(r)]
	return key, ok
}
