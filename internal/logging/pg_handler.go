package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/swapcircle/swapcircle-api/internal/models"
)

const (
	sinkFlushInterval = 5 * time.Second
	sinkBatchSize     = 50
)

// PGHandler persists ERROR-level records to the system_logs table. Records
// are buffered and written in batches so logging never blocks a request on
// a database round trip.
type PGHandler struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []models.SystemLog

	ticker *time.Ticker
	done   chan struct{}
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	h := &PGHandler{
		db:      db,
		pending: make([]models.SystemLog, 0, sinkBatchSize),
		ticker:  time.NewTicker(sinkFlushInterval),
		done:    make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-h.ticker.C:
				h.flush()
			case <-h.done:
				h.flush()
				return
			}
		}
	}()
	return h
}

// Stop drains the buffer. Call before closing the database connection.
func (h *PGHandler) Stop() {
	h.ticker.Stop()
	close(h.done)
}

func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	h.pending = append(h.pending, toRow(record))
	full := len(h.pending) >= sinkBatchSize
	h.mu.Unlock()

	if full {
		go h.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *PGHandler) WithGroup(string) slog.Handler      { return h }

func (h *PGHandler) flush() {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.pending
	h.pending = make([]models.SystemLog, 0, sinkBatchSize)
	h.mu.Unlock()

	// Logged below ERROR so a failing database does not feed this sink.
	if err := h.db.CreateInBatches(batch, sinkBatchSize).Error; err != nil {
		slog.Warn("system log flush failed", "error", err, "dropped", len(batch))
	}
}

// toRow lifts the well-known request attributes into their own columns and
// folds everything else into the extra JSON blob.
func toRow(record slog.Record) models.SystemLog {
	row := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			row.RequestID = a.Value.String()
		case "user_id":
			v := a.Value.String()
			row.UserID = &v
		case "method", "path":
			if row.Action == "" {
				row.Action = a.Value.String()
			} else {
				row.Action += " " + a.Value.String()
			}
		case "error":
			row.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	})
	if len(extra) > 0 {
		if raw, err := json.Marshal(extra); err == nil {
			row.Extra = datatypes.JSON(raw)
		}
	}
	return row
}
