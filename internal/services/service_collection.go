// file: internal/services/service_collection.go
package services

import (
	"context"
	"fmt"

	"questhub/internal/cache"
	"questhub/internal/config"
	"questhub/internal/database"
	"questhub/internal/events"
	"questhub/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection wires the engine's services with their dependencies
type ServiceCollection struct {
	Lifecycle LifecycleService
	Query     QueryService

	Repositories *repositories.Collection
	Cache        cache.Cache
	EventBus     events.EventBus

	Logger    *zap.Logger
	Config    *config.Config
	DBManager *database.Manager
}

// NewServiceCollection creates the service collection in dependency order
func NewServiceCollection(
	dbManager *database.Manager,
	cacheBackend cache.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sc := &ServiceCollection{
		DBManager: dbManager,
		Cache:     cacheBackend,
		Config:    cfg,
		Logger:    logger,
	}

	sc.Repositories = repositories.NewCollection(dbManager, logger)
	sc.EventBus = events.NewEventBus(events.DefaultEventBusConfig(), logger)
	sc.Lifecycle = NewLifecycleService(sc.Repositories, sc.EventBus, logger)
	sc.Query = NewQueryService(sc.Repositories, cacheBackend, logger, cfg.Cache.TTL)

	logger.Info("Service collection initialized")
	return sc, nil
}

// Start starts background processing (event bus workers)
func (sc *ServiceCollection) Start(ctx context.Context) error {
	return sc.EventBus.Start(ctx)
}

// Shutdown stops background processing and closes owned resources
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	var errs []error

	if err := sc.EventBus.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("event bus stop: %w", err))
	}
	if sc.Cache != nil {
		if err := sc.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
	}
	if err := sc.DBManager.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}

	if len(errs) > 0 {
		for _, err := range errs {
			sc.Logger.Error("shutdown error", zap.Error(err))
		}
		return fmt.Errorf("shutdown completed with %d errors", len(errs))
	}

	sc.Logger.Info("Service collection shut down")
	return nil
}

// Health checks the collection's external dependencies
func (sc *ServiceCollection) Health(ctx context.Context) error {
	if err := sc.DBManager.Health(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if sc.Cache != nil {
		if err := sc.Cache.Health(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	if err := sc.EventBus.Health(); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	return nil
}
