package session

import (
	"context"
	"sync"

	"backend-mapty/internal/storage"

	"go.uber.org/zap"
)

// RendererFunc returns the renderer for one client session.
type RendererFunc func(sessionID string) Renderer

// Registry hands out one Store per client session. The first successful Get
// for an id restores that session's list from storage.
type Registry struct {
	mu        sync.Mutex
	kv        storage.KV
	prefix    string
	renderers RendererFunc
	logger    *zap.Logger
	stores    map[string]*Store
}

func NewRegistry(kv storage.KV, prefix string, renderers RendererFunc, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		kv:        kv,
		prefix:    prefix,
		renderers: renderers,
		logger:    logger,
		stores:    map[string]*Store{},
	}
}

// KeyFor is the storage key of a session. An empty id maps to the bare prefix.
func (r *Registry) KeyFor(sessionID string) string {
	if sessionID == "" {
		return r.prefix
	}
	return r.prefix + ":" + sessionID
}

// Get returns the session's store, restoring it on first access. A store whose
// restore failed is not kept, so the next call reads storage again.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Store, error) {
	s, _, err := r.get(ctx, sessionID)
	return s, err
}

// Replay makes sure a freshly attached renderer sees the whole list. A new
// session already rendered while restoring; an existing one renders again to
// the given renderer only.
func (r *Registry) Replay(ctx context.Context, sessionID string, to Renderer) error {
	s, created, err := r.get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !created {
		s.Replay(to)
	}
	return nil
}

func (r *Registry) get(ctx context.Context, sessionID string) (*Store, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[sessionID]; ok {
		return s, false, nil
	}

	opts := []Option{WithLogger(r.logger.With(zap.String("session_id", sessionID)))}
	if r.renderers != nil {
		opts = append(opts, WithRenderer(r.renderers(sessionID)))
	}
	s := NewStore(r.kv, r.KeyFor(sessionID), opts...)
	if _, err := s.Restore(ctx); err != nil {
		return nil, false, err
	}
	r.stores[sessionID] = s
	return s, true, nil
}
