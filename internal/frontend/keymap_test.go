package frontend

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeyForRune(t *testing.T) {
	tests := []struct {
		r    rune
		key  int
		isOK bool
	}{
		{r: '1', key: 0x1, isOK: true},
		{r: '4', key: 0xC, isOK: true},
		{r: 'q', key: 0x4, isOK: true},
		{r: 'R', key: 0xD, isOK: true},
		{r: 'f', key: 0xE, isOK: true},
		{r: 'x', key: 0x0, isOK: true},
		{r: 'V', key: 0xF, isOK: true},
		{r: '5', isOK: false},
		{r: ' ', isOK: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			key, ok := KeyForRune(tt.r)
			assert.Equal(t, tt.isOK, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestKeypadCoversAllKeys(t *testing.T) {
	seen := map[int]bool{}
	for row := range Keypad {
		for _, key := range Keypad[row] {
			seen[key] = true
		}
	}
	assert.Len(t, seen, 16)
	assert.Len(t, runeKeys, 16)
}
