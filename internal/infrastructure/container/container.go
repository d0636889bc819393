// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/application/chat"
	"github.com/platewise/v1/internal/application/recommend"
	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/infrastructure/ai"
	"github.com/platewise/v1/internal/infrastructure/ai/provider"
	"github.com/platewise/v1/internal/infrastructure/cache"
	"github.com/platewise/v1/internal/infrastructure/catalog"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/http/handlers"
	"github.com/platewise/v1/internal/infrastructure/http/server"
	"github.com/platewise/v1/internal/infrastructure/persistence/memory"
	redisstore "github.com/platewise/v1/internal/infrastructure/persistence/redis"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/healthcheck"
	"github.com/platewise/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	CatalogModule,
	StorageModule,
	AIModule,
	ServiceModule,
	HealthModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.IsDevelopment(),
		})
	},
)

// CatalogModule provides the menu catalog collaborator
var CatalogModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*menu.Catalog, error) {
		return catalog.Load(&cfg.Menu, log)
	},
)

// StorageModule provides the key-value store collaborator
var StorageModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.KVStore, error) {
		if cfg.Redis.Enabled {
			return redisstore.NewKVStore(&cfg.Redis, log)
		}
		log.Info("Using in-memory KV store")
		return memory.NewKVStore(), nil
	},
)

// AIModule provides the completion gateway stack
var AIModule = fx.Options(
	fx.Provide(func(cfg *config.Config, log *zap.Logger) (*ai.CredentialRotator, error) {
		credentials := cfg.AI.Credentials
		if len(credentials) == 0 {
			log.Warn("No completion credentials configured, using development placeholder")
			credentials = []string{"dev-credential"}
		}
		return ai.NewCredentialRotator(credentials)
	}),
	fx.Provide(func(cfg *config.Config, log *zap.Logger) *provider.Client {
		return provider.NewClient(cfg.AI.BaseURL, cfg.AI.Model, log)
	}),
	fx.Provide(
		fx.Annotate(
			func(cfg *config.Config, client *provider.Client, rotator *ai.CredentialRotator, log *zap.Logger) *ai.ModelGateway {
				return ai.NewModelGateway(client, rotator, log,
					ai.WithAttemptTimeout(cfg.AI.AttemptTimeout),
					ai.WithBackoff(cfg.AI.TransientBackoff),
				)
			},
			fx.As(new(outbound.CompletionGateway)),
		),
	),
	fx.Provide(func(cfg *config.Config, cat *menu.Catalog) *ai.PromptBuilder {
		return ai.NewPromptBuilder(cat, cfg.AI.MaxContextTurns, cfg.AI.Temperature, cfg.AI.MaxTokens)
	}),
	fx.Provide(func(log *zap.Logger) *ai.ResponseParser {
		return ai.NewResponseParser(log)
	}),
)

// ServiceModule provides application services
var ServiceModule = fx.Options(
	fx.Provide(
		fx.Annotate(
			func(
				cfg *config.Config,
				gateway outbound.CompletionGateway,
				builder *ai.PromptBuilder,
				parser *ai.ResponseParser,
				cat *menu.Catalog,
				store outbound.KVStore,
				log *zap.Logger,
			) *chat.Service {
				return chat.NewService(gateway, builder, parser, cat, store, cfg.Menu.Currency, log)
			},
			fx.As(new(inbound.ChatService)),
		),
	),
	fx.Provide(func() *recommend.Engine {
		return recommend.NewEngine()
	}),
	fx.Provide(
		fx.Annotate(
			func() *cache.RecommendationCache {
				return cache.NewRecommendationCache()
			},
			fx.As(new(outbound.RecommendationCache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			func(
				cfg *config.Config,
				cat *menu.Catalog,
				engine *recommend.Engine,
				recCache outbound.RecommendationCache,
				log *zap.Logger,
			) *recommend.Service {
				return recommend.NewService(cat, engine, recCache, cfg.Cache.TTL, log)
			},
			fx.As(new(inbound.RecommendationService)),
		),
	),
)

// HealthModule provides the readiness check registry
var HealthModule = fx.Provide(
	func(cfg *config.Config, store outbound.KVStore, cat *menu.Catalog) *healthcheck.Registry {
		registry := healthcheck.NewRegistry(cfg.App.Name, cfg.App.Version)
		registry.Register(healthcheck.CheckerFunc{
			CheckName: "kv-store",
			Fn: func(ctx context.Context) error {
				return store.Put(ctx, "health:probe", []byte("ok"))
			},
		}, true)
		registry.Register(healthcheck.CheckerFunc{
			CheckName: "menu-catalog",
			Fn: func(context.Context) error {
				if cat.Len() == 0 {
					return fmt.Errorf("catalog is empty")
				}
				return nil
			},
		}, false)
		return registry
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Options(
	fx.Provide(func(
		chatService inbound.ChatService,
		recommendService inbound.RecommendationService,
		cat *menu.Catalog,
		log *zap.Logger,
	) *handlers.API {
		return handlers.NewAPI(chatService, recommendService, cat, log)
	}),
	fx.Provide(server.NewServer),
)

// LifecycleModule wires startup and shutdown hooks
var LifecycleModule = fx.Invoke(
	func(
		lc fx.Lifecycle,
		srv *server.Server,
		chatService inbound.ChatService,
		store outbound.KVStore,
		log *zap.Logger,
	) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Error("HTTP server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				if err := srv.Shutdown(ctx); err != nil {
					log.Warn("HTTP shutdown failed", zap.Error(err))
				}
				if svc, ok := chatService.(*chat.Service); ok {
					svc.Close()
				}
				return store.Close()
			},
		})
	},
)
