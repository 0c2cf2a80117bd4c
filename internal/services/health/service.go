package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
	// Sessions reports the number of live sessions; optional.
	Sessions func() int
}

// NewService constructs a new health service.
func NewService(db *sql.DB, sessions func() int) *Service {
	return &Service{DB: db, Sessions: sessions}
}

// Status returns the health payload and whether every dependency is reachable.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{"ok": true, "store": "memory"}
	if s == nil {
		return out, true
	}
	if s.Sessions != nil {
		out["sessions"] = s.Sessions()
	}
	if s.DB == nil {
		return out, true
	}
	out["store"] = "postgres"
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		out["ok"] = false
		out["database"] = "unreachable"
		return out, false
	}
	out["database"] = "ok"
	return out, true
}
