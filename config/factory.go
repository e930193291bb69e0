package config

import (
	"context"
	"fmt"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/engine"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
	"github.com/rushteam/movierec/store"
)

// BuildCatalog 按配置组装目录后端，必要时套上缓存装饰器。
func BuildCatalog(ctx context.Context, cfg *Config) (core.VectorStore, error) {
	var catalog core.VectorStore
	var err error

	switch cfg.Store.Driver {
	case "postgres":
		var pg *store.PgCatalog
		pg, err = store.NewPgCatalog(ctx, cfg.Store.DSN)
		if err == nil {
			if err = pg.EnsureSchema(ctx); err != nil {
				pg.Close()
				return nil, err
			}
			catalog = pg
		}
	case "memory":
		catalog = store.NewMemoryCatalog()
	default:
		err = fmt.Errorf("config: unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	var cache core.Store
	switch cfg.Cache.Driver {
	case "":
		return catalog, nil
	case "memory":
		cache = store.NewMemoryStore()
	case "redis":
		cache, err = store.NewRedisStore(cfg.Cache.Addr, cfg.Cache.DB)
		if err != nil {
			catalog.Close()
			return nil, err
		}
	default:
		catalog.Close()
		return nil, fmt.Errorf("config: unknown cache driver %q", cfg.Cache.Driver)
	}

	cached := store.NewCachedCatalog(catalog, cache)
	if cfg.Cache.TTLSeconds > 0 {
		cached.TTL = cfg.Cache.TTLSeconds
	}
	return cached, nil
}

// BuildEngine 按配置组装完整的推荐引擎。
func BuildEngine(ctx context.Context, cfg *Config) (*engine.Engine, error) {
	catalog, err := BuildCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var opts []engine.Option
	if cfg.Engine.FanoutK > 0 {
		opts = append(opts, engine.WithFanoutK(cfg.Engine.FanoutK))
	}
	if d := cfg.Engine.Timeout(); d > 0 {
		opts = append(opts, engine.WithTimeout(d))
	}
	for _, expr := range cfg.Engine.FilterExprs {
		f, err := filter.NewExprFilter(expr)
		if err != nil {
			catalog.Close()
			return nil, fmt.Errorf("config: filter expr %q: %w", expr, err)
		}
		opts = append(opts, engine.WithFilters(f))
	}
	return engine.New(catalog, opts...), nil
}

// NewNodeFactory 返回注册了全部内置 Node 的工厂。
// 依赖存储的 Node（召回）在注册时闭包捕获目录实例。
func NewNodeFactory(catalog core.VectorStore) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("recall.signal_fanout", func(config map[string]any) (pipeline.Node, error) {
		return &recall.SignalFanout{
			Store: catalog,
			TopK:  conv.ConfigGetInt(config, "top_k", recall.DefaultTopK),
		}, nil
	})

	f.Register("recall.hot", func(config map[string]any) (pipeline.Node, error) {
		return &recall.Hot{
			Store: catalog,
			Limit: conv.ConfigGetInt(config, "limit", 0),
		}, nil
	})

	f.Register("filter.focus_movie", func(config map[string]any) (pipeline.Node, error) {
		return &filter.FilterNode{Filters: []filter.Filter{&filter.FocusMovieFilter{}}}, nil
	})

	f.Register("filter.expr", func(config map[string]any) (pipeline.Node, error) {
		expr := conv.ConfigGet(config, "expr", "")
		if expr == "" {
			return nil, fmt.Errorf("filter.expr: expr is required")
		}
		ef, err := filter.NewExprFilter(expr)
		if err != nil {
			return nil, err
		}
		return &filter.FilterNode{Filters: []filter.Filter{ef}}, nil
	})

	f.Register("rank.blend", func(config map[string]any) (pipeline.Node, error) {
		return &rank.BlendNode{}, nil
	})

	f.Register("rerank.topn", func(config map[string]any) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(config, "n", 0)}, nil
	})

	return f
}
