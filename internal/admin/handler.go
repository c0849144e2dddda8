// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/purchase"
)

type UserCounter interface {
	CountByRole(ctx context.Context) (map[string]int, error)
}

type AssetCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type SalesReporter interface {
	Totals(ctx context.Context) (purchase.Totals, error)
}

type Handler struct {
	policy     *authz.Policy
	users      UserCounter
	assets     AssetCounter
	sales      SalesReporter
	dbStats    func() (sql.DBStats, bool)
	redisStats func() *redis.PoolStats
	storePing  func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
}

// HandlerConfig wires the marketplace counters and optional
// infrastructure probes. Nil probes are reported as absent.
type HandlerConfig struct {
	Policy     *authz.Policy
	Users      UserCounter
	Assets     AssetCounter
	Sales      SalesReporter
	DBStats    func() (sql.DBStats, bool)
	RedisStats func() *redis.PoolStats
	StorePing  func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		policy:     cfg.Policy,
		users:      cfg.Users,
		assets:     cfg.Assets,
		sales:      cfg.Sales,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		storePing:  cfg.StorePing,
		redisPing:  cfg.RedisPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)
		r.Use(h.requireStatusAccess)

		r.Get("/", h.GetSystemStats)
		r.Get("/marketplace", h.GetMarketplaceStats)
		r.Get("/db", h.GetDatabaseStats)
		r.Get("/redis", h.GetRedisStats)
		r.Get("/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) requireStatusAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := authz.FromContext(r.Context())
		if err := h.policy.Authorize(principal, authz.ActionViewSystemStatus); err != nil {
			core.HandleError(w, err, "stats")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	marketplace, err := h.marketplaceStats(ctx)
	if err != nil {
		core.HandleError(w, err, "stats")
		return
	}

	core.OK(w, SystemStatsResponse{
		Marketplace: *marketplace,
		Store: StoreStatus{
			Healthy: probe(ctx, h.storePing),
			Pool:    h.getDBStats(),
		},
		Redis: RedisStatus{
			Configured: h.redisPing != nil,
			Healthy:    h.redisPing != nil && probe(ctx, h.redisPing),
			Stats:      h.getRedisStats(),
		},
		Runtime: readRuntime(),
	})
}

func (h *Handler) GetMarketplaceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.marketplaceStats(r.Context())
	if err != nil {
		core.HandleError(w, err, "stats")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := h.getDBStats()
	if stats == nil {
		core.NotFound(w, "database pool")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	stats := h.getRedisStats()
	if stats == nil {
		core.NotFound(w, "redis pool")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntime())
}

func (h *Handler) marketplaceStats(ctx context.Context) (*MarketplaceStats, error) {
	users, err := h.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	assets, err := h.assets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := h.sales.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &MarketplaceStats{
		UsersByRole:    users,
		AssetsByStatus: assets,
		Purchases:      totals.Count,
		Revenue:        totals.Revenue,
		RevenueDisplay: asset.PriceDisplay(totals.Revenue),
	}, nil
}

func probe(ctx context.Context, ping func(ctx context.Context) error) bool {
	if ping == nil {
		return true
	}
	return ping(ctx) == nil
}

func readRuntime() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats, ok := h.dbStats()
	if !ok {
		return nil
	}
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	if stats == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Marketplace MarketplaceStats `json:"marketplace"`
	Store       StoreStatus      `json:"store"`
	Redis       RedisStatus      `json:"redis"`
	Runtime     RuntimeStats     `json:"runtime"`
}

type MarketplaceStats struct {
	UsersByRole    map[string]int `json:"users_by_role"`
	AssetsByStatus map[string]int `json:"assets_by_status"`
	Purchases      int            `json:"purchases"`
	Revenue        int64          `json:"revenue"`
	RevenueDisplay string         `json:"revenue_display"`
}

type StoreStatus struct {
	Healthy bool         `json:"healthy"`
	Pool    *DBPoolStats `json:"pool,omitempty"`
}

type RedisStatus struct {
	Configured bool            `json:"configured"`
	Healthy    bool            `json:"healthy"`
	Stats      *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
