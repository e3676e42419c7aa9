package health

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Message is always returned while the process can serve requests.
const Message = "API is Running without Problems"

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresChecker adapts a pgx pool to Checker.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (p *PostgresChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// SQLChecker adapts a database/sql handle, such as the SQLite store, to Checker.
type SQLChecker struct {
	db *sql.DB
}

func NewSQLChecker(db *sql.DB) *SQLChecker {
	return &SQLChecker{db: db}
}

func (s *SQLChecker) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Handler handles health check operations. A nil checker marks the
// dependency as not configured and it is left out of the response.
type Handler struct {
	redis    Checker
	database Checker
}

// NewHandler creates a new health handler.
func NewHandler(redis, database Checker) *Handler {
	return &Handler{redis: redis, database: database}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Message  string `json:"message"            example:"API is Running without Problems"`
		Status   string `json:"status"             enum:"ok,degraded"                         example:"ok"`
		Redis    string `json:"redis,omitempty"    enum:"healthy,unhealthy"`
		Database string `json:"database,omitempty" enum:"healthy,unhealthy"`
	}
}

// Check performs a health check of the application and its dependencies.
// It answers 200 even when a dependency is down; Status says so instead.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Message = Message
	resp.Body.Status = "ok"

	if h.redis != nil {
		resp.Body.Redis = check(ctx, h.redis)
	}

	if h.database != nil {
		resp.Body.Database = check(ctx, h.database)
	}

	if resp.Body.Redis == statusUnhealthy || resp.Body.Database == statusUnhealthy {
		resp.Body.Status = "degraded"
	}

	return resp, nil
}

func check(ctx context.Context, c Checker) string {
	if err := c.Ping(ctx); err != nil {
		return statusUnhealthy
	}

	return statusHealthy
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health_check",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Check)
}
