// Package grammaticus models Latin inflection: it derives the paradigm of a
// noun stem or verb lemma from per-class ending tables, and recovers stems
// and feature slots from inflected surface forms.
//
// Ending tables and the exception registry are built once by New and are
// read-only afterwards, so an Engine is safe for concurrent use.
package grammaticus

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Engine holds the ending tables and the exception registry.
type Engine struct {
	paradigms  *Paradigms
	exceptions *Registry
	logger     *zap.Logger
}

type options struct {
	logger    *zap.Logger
	paradigms *Paradigms
	source    ExceptionSource
	match     AltStemMatch
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used while loading. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithParadigms replaces the embedded ending tables.
func WithParadigms(ps *Paradigms) Option {
	return func(o *options) { o.paradigms = ps }
}

// WithExceptions sets the exception source. The default is the embedded
// exception table; pass nil for an empty registry.
func WithExceptions(src ExceptionSource) Option {
	return func(o *options) { o.source = src }
}

// WithAltStemMatch selects how alternate stems are matched.
func WithAltStemMatch(m AltStemMatch) Option {
	return func(o *options) { o.match = m }
}

// New builds an Engine. Tables are decoded and exception records parsed
// here; any data error is returned and no Engine is built.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	o := options{
		logger: zap.NewNop(),
		source: DefaultExceptions(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ps := o.paradigms
	if ps == nil {
		var err error
		if ps, err = DefaultParadigms(); err != nil {
			return nil, err
		}
	}
	o.logger.Debug("paradigms loaded", zap.Int("classes", len(ps.classes)))

	var records []ExceptionRecord
	if o.source != nil {
		var err error
		if records, err = o.source.LoadExceptions(ctx); err != nil {
			return nil, fmt.Errorf("load exceptions: %w", err)
		}
	}
	reg, err := BuildRegistry(ps, records, o.match)
	if err != nil {
		return nil, err
	}
	for _, dup := range reg.skipped {
		o.logger.Warn("duplicate exception entry skipped",
			zap.String("stem", dup.Stem),
			zap.String("class", string(dup.Class)))
	}
	o.logger.Debug("exceptions loaded",
		zap.Int("entries", reg.Len()),
		zap.Stringer("alt_stem_match", o.match))

	return &Engine{
		paradigms:  ps,
		exceptions: reg,
		logger:     o.logger,
	}, nil
}

// Paradigms returns the ending tables.
func (e *Engine) Paradigms() *Paradigms {
	return e.paradigms
}

// Exceptions returns the exception registry.
func (e *Engine) Exceptions() *Registry {
	return e.exceptions
}

// Classes returns every loaded inflection class.
func (e *Engine) Classes() []Class {
	return e.paradigms.Classes()
}

// Paradigm returns the ending table of class c.
func (e *Engine) Paradigm(c Class) (*Paradigm, error) {
	return e.paradigms.Get(c)
}
