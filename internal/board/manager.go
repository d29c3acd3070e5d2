package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"whiteboard-backend/internal/cache"
	"whiteboard-backend/internal/model"
)

// ManagerConfig tunes session lifecycle and the per-board engines.
type ManagerConfig struct {
	Board       Config
	IdleTimeout time.Duration // boards idle longer than this are checkpointed and evicted
}

// Manager holds the open board sessions. Boards are loaded lazily from the
// latest persisted snapshot and checkpointed back on close or eviction.
// The database and cache are optional; without them boards live purely in
// memory.
type Manager struct {
	mu     sync.RWMutex
	boards map[string]*Board
	cfg    ManagerConfig
	db     *gorm.DB
	cache  *cache.Client
	log    zerolog.Logger
}

// NewManager creates a session manager. db and cache may be nil.
func NewManager(cfg ManagerConfig, db *gorm.DB, cacheClient *cache.Client, log zerolog.Logger) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	return &Manager{
		boards: make(map[string]*Board),
		cfg:    cfg,
		db:     db,
		cache:  cacheClient,
		log:    log,
	}
}

// Open returns the live session for boardID, loading the latest snapshot
// from the store on first access and creating the board row when none
// exists yet.
func (m *Manager) Open(ctx context.Context, boardID, ownerID string) (*Board, error) {
	m.mu.RLock()
	b, ok := m.boards[boardID]
	m.mu.RUnlock()
	if ok {
		b.Touch()
		return b, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.boards[boardID]; ok {
		b.Touch()
		return b, nil
	}

	b = New(boardID, m.cfg.Board)
	if m.db != nil {
		if err := m.loadFromStore(ctx, b, boardID, ownerID); err != nil {
			return nil, err
		}
	}
	m.boards[boardID] = b
	m.log.Info().Str("board", boardID).Msg("board session opened")
	return b, nil
}

func (m *Manager) loadFromStore(ctx context.Context, b *Board, boardID, ownerID string) error {
	id, err := uuid.Parse(boardID)
	if err != nil {
		return fmt.Errorf("invalid board id %q: %w", boardID, err)
	}

	row := model.Board{ID: id, Title: "Untitled board", OwnerID: ownerID}
	if err := m.db.WithContext(ctx).Where(model.Board{ID: id}).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("load board row: %w", err)
	}

	var snap model.BoardSnapshot
	err = m.db.WithContext(ctx).
		Where("board_id = ?", id).
		Order("version DESC").
		First(&snap).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load board snapshot: %w", err)
	}
	if err := b.Restore(snap.Objects); err != nil {
		return fmt.Errorf("restore board %s: %w", boardID, err)
	}
	return nil
}

// Get returns an already-open session without loading anything.
func (m *Manager) Get(boardID string) (*Board, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.boards[boardID]
	return b, ok
}

// Checkpoint persists the board's current snapshot to the store and the
// cache. Cache failures are logged, not returned.
func (m *Manager) Checkpoint(ctx context.Context, boardID string) error {
	b, ok := m.Get(boardID)
	if !ok {
		return fmt.Errorf("board %s not open", boardID)
	}
	data, err := b.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot board %s: %w", boardID, err)
	}

	if m.db != nil {
		id, err := uuid.Parse(boardID)
		if err != nil {
			return fmt.Errorf("invalid board id %q: %w", boardID, err)
		}
		row := model.BoardSnapshot{BoardID: id, Version: b.Version(), Objects: data}
		if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("persist snapshot for board %s: %w", boardID, err)
		}
	}
	if m.cache != nil {
		if err := m.cache.SetBoardSnapshot(ctx, boardID, data); err != nil {
			m.log.Warn().Err(err).Str("board", boardID).Msg("snapshot cache write failed")
		}
	}
	return nil
}

// CachedSnapshot serves a snapshot without opening a session: live state if
// the board is open, otherwise the cache.
func (m *Manager) CachedSnapshot(ctx context.Context, boardID string) ([]byte, bool) {
	if b, ok := m.Get(boardID); ok {
		data, err := b.Snapshot()
		if err == nil {
			return data, true
		}
		m.log.Warn().Err(err).Str("board", boardID).Msg("live snapshot failed")
	}
	if m.cache != nil {
		data, hit, err := m.cache.GetBoardSnapshot(ctx, boardID)
		if err != nil {
			m.log.Warn().Err(err).Str("board", boardID).Msg("snapshot cache read failed")
		} else if hit {
			return data, true
		}
	}
	return nil, false
}

// Close checkpoints and evicts one session.
func (m *Manager) Close(ctx context.Context, boardID string) error {
	if _, ok := m.Get(boardID); !ok {
		return nil
	}
	err := m.Checkpoint(ctx, boardID)
	m.mu.Lock()
	delete(m.boards, boardID)
	m.mu.Unlock()
	m.log.Info().Str("board", boardID).Msg("board session closed")
	return err
}

// EvictIdle checkpoints and drops sessions idle longer than the configured
// timeout. Returns the number of evicted boards.
func (m *Manager) EvictIdle(ctx context.Context) int {
	m.mu.RLock()
	var idle []string
	for id, b := range m.boards {
		if time.Since(b.LastAccess()) > m.cfg.IdleTimeout {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range idle {
		if err := m.Close(ctx, id); err != nil {
			m.log.Warn().Err(err).Str("board", id).Msg("idle eviction checkpoint failed")
		}
	}
	return len(idle)
}

// RunJanitor periodically evicts idle sessions until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictIdle(ctx); n > 0 {
				m.log.Info().Int("count", n).Msg("evicted idle boards")
			}
		}
	}
}
