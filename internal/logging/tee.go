package logging

import (
	"context"
	"errors"
	"log/slog"
)

// Tee duplicates log records to every wrapped handler. A slow or failing
// sink never suppresses delivery to the others.
type Tee struct {
	sinks []slog.Handler
}

func NewTee(sinks ...slog.Handler) *Tee {
	return &Tee{sinks: sinks}
}

func (t *Tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range t.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *Tee) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range t.sinks {
		if !s.Enabled(ctx, record.Level) {
			continue
		}
		if err := s.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(t.sinks))
	for i, s := range t.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return &Tee{sinks: sinks}
}

func (t *Tee) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(t.sinks))
	for i, s := range t.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return &Tee{sinks: sinks}
}
