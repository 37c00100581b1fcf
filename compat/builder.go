package compat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/eventlog"
)

// Builder creates gnet, fasthttp and zap adapters sharing one logger.
// It can use an existing *eventlog.Logger or open one from a *eventlog.Config.
type Builder struct {
	logger *eventlog.Logger
	logCfg *eventlog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *eventlog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("eventlog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance
func (b *Builder) WithConfig(cfg *eventlog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*eventlog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = eventlog.DefaultConfig()
	}

	l, err := eventlog.Open(cfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildStructuredGnet creates a gnet adapter that extracts key/value fields
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildZap creates a *zap.Logger writing into the diagnostic channels
func (b *Builder) BuildZap(opts ...zap.Option) (*zap.Logger, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l, opts...), nil
}

// GetLogger returns the underlying *eventlog.Logger instance
func (b *Builder) GetLogger() (*eventlog.Logger, error) {
	return b.getLogger()
}

// Example:
//
//	appLogger, err := eventlog.NewBuilder().Directory("/var/log/app").Build()
//	if err != nil { /* handle error */ }
//	defer appLogger.Close()
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
