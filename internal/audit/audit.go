package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"business-service/internal/rbac"
)

const defaultWriteTimeout = 2 * time.Second

// Execer is satisfied by *pgxpool.Pool
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Event represents one denied authorization check
type Event struct {
	ID        uuid.UUID
	RequestID string
	UserID    *uuid.UUID
	Role      rbac.Role
	Reason    rbac.Reason
	Required  string
	Method    string
	Path      string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// Recorder persists denial events. Without a database it only logs them.
type Recorder struct {
	db      Execer
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder. db may be nil.
func NewRecorder(db Execer, logger *slog.Logger, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &Recorder{db: db, logger: logger, timeout: timeout}
}

// Log writes an event synchronously.
func (r *Recorder) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if r.db == nil {
		return nil
	}

	query := `
		INSERT INTO authorization_denials (
			id, request_id, user_id, role, reason, required,
			method, path, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.RequestID,
		event.UserID,
		string(event.Role),
		string(event.Reason),
		event.Required,
		event.Method,
		event.Path,
		event.IPAddress,
		event.UserAgent,
		event.CreatedAt,
	)

	return err
}

// Record logs the event and stores it in the background. Storage failures
// are logged and never reach the caller.
func (r *Recorder) Record(event *Event) {
	r.logger.Warn("authorization denied",
		slog.String("request_id", event.RequestID),
		slog.String("role", string(event.Role)),
		slog.String("reason", string(event.Reason)),
		slog.String("required", event.Required),
		slog.String("method", event.Method),
		slog.String("path", event.Path),
	)

	if r.db == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.Log(ctx, event); err != nil {
			r.logger.Error("audit write failed",
				slog.String("request_id", event.RequestID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Wait blocks until background writes have finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// EventFromContext builds a denial event from the request and the decision.
func EventFromContext(c echo.Context, requestID string, id *rbac.Identity, decision rbac.Decision) *Event {
	event := &Event{
		RequestID: requestID,
		Role:      decision.UserRole,
		Reason:    decision.Reason,
		Required:  decision.Requirement.String(),
		Method:    c.Request().Method,
		Path:      c.Path(),
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}

	if event.Path == "" {
		event.Path = c.Request().URL.Path
	}

	if id != nil {
		uid := id.UserID
		event.UserID = &uid
	}

	return event
}
