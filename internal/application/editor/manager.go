package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Conciliador-api/internal/domain"
)

// Manager registro en memoria de sesiones de edición activas, una por
// combinación bloque+registro abierta por la capa HTTP.
type Manager struct {
	mu       sync.RWMutex
	deps     Deps
	blocks   map[string]BlockConfig
	sessions map[string]*Session
}

// NewManager construye el registro con los bloques configurados.
func NewManager(deps Deps, blocks []BlockConfig) *Manager {
	byID := make(map[string]BlockConfig, len(blocks))
	for _, b := range blocks {
		byID[b.BlockID] = b
	}
	return &Manager{
		deps:     deps,
		blocks:   byID,
		sessions: make(map[string]*Session),
	}
}

// Blocks devuelve las configuraciones de bloque registradas.
func (m *Manager) Blocks() []BlockConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BlockConfig, 0, len(m.blocks))
	for _, b := range m.blocks {
		out = append(out, b)
	}
	return out
}

// Open crea una sesión para el bloque y registro dados y entra en edición.
func (m *Manager) Open(ctx context.Context, blockID, recordID string) (*Session, error) {
	m.mu.Lock()
	cfg, ok := m.blocks[blockID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("bloque %s: %w", blockID, domain.ErrNotFound)
	}
	s := NewSession(cfg, recordID, m.deps)
	if err := s.StartEdit(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get busca una sesión activa.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("sesión %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// Close quita la sesión del registro.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
