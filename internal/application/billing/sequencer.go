package billing

import "sync"

// Sequencer asigna tokens crecientes por clave para aplicar "gana la última petición"
// según el orden de emisión y no según el orden de llegada de las respuestas.
type Sequencer struct {
	mu      sync.Mutex
	counter uint64
	latest  map[string]uint64
}

// NewSequencer construye un Sequencer vacío.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Next emite un token nuevo para key; invalida los anteriores.
func (s *Sequencer) Next(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	s.latest[key] = s.counter
	return s.counter
}

// IsLatest indica si token sigue siendo el último emitido para key.
func (s *Sequencer) IsLatest(key string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == token
}

// Forget libera la clave (línea o documento eliminado).
func (s *Sequencer) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.latest, key)
}
