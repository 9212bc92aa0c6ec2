// Package backend assembles a wired App from configuration: the storage
// medium, the change bus (with optional AMQP bridge), and everything on top.
package backend

import (
	"fmt"

	"fintrack/internal/app"
	"fintrack/internal/bus"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Type selects the storage medium.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) IsValid() bool {
	return t == SQLiteBackend || t == MemoryBackend
}

// Result holds the wired application and a cleanup function.
type Result struct {
	App     *app.App
	Relay   *bus.Relay
	Cleanup func() error
}

// Create builds the medium, store, bus and app from config. When AMQP is
// unconfigured or unreachable the app still works; change signals just stay
// in-process.
func Create(cfg *config.Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	blog := logger.WithComponent(log.ComponentBackend)

	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	var medium storage.Medium
	switch backendType {
	case SQLiteBackend:
		m, err := storage.NewSQLiteMedium(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite medium: %w", err)
		}
		medium = m
		blog.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
	case MemoryBackend:
		medium = storage.NewMemoryMedium()
		blog.Info("Initialized memory backend")
	}

	var bridge bus.Bridge
	if cfg.AMQPURL != "" {
		b, err := bus.NewAMQPBridge(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			blog.Warn("Failed to initialize AMQP bridge, continuing without cross-process signals",
				log.FieldError, err.Error())
		} else {
			bridge = b
			blog.Info("Initialized AMQP bridge", "exchange", cfg.AMQPExchange)
		}
	}

	store := storage.NewStore(medium, cfg.KeyPrefix, logger)
	relay := bus.NewRelay(bus.NewLocalBus(), bridge)
	application := app.New(store, relay, logger)

	cleanup := func() error {
		if bridge != nil {
			if err := bridge.Close(); err != nil {
				blog.Warn("Failed to close AMQP bridge", log.FieldError, err.Error())
			}
		}
		return application.Close()
	}

	return &Result{App: application, Relay: relay, Cleanup: cleanup}, nil
}
