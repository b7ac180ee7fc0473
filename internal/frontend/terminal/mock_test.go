package terminal

import "sync"

type keyEvent struct {
	key     int
	pressed bool
}

type mockHost struct {
	mu     sync.Mutex
	events []keyEvent
	resets int
}

func (h *mockHost) SetKey(key int, pressed bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, keyEvent{key: key, pressed: pressed})
	return nil
}

func (h *mockHost) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resets++
}

func (h *mockHost) Events() []keyEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]keyEvent(nil), h.events...)
}
