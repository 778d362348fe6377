package ratelimit

// Len reports how many instants are currently stored for key.
func (w *Window) Len(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.hits[key])
}
