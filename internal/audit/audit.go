package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	UserID     *string
	Action     string
	EntityType string
	EntityID   *string
	IP         *string
	Metadata   []byte
}

// Logger writes audit entries; a nil Logger silently discards them so
// handlers never need to branch.
type Logger struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Logger {
	return &Logger{Pool: pool}
}

// Record inserts the entry; failures are returned so callers decide whether
// auditing is best-effort for the operation at hand.
func (l *Logger) Record(ctx context.Context, e Entry) error {
	if l == nil || l.Pool == nil {
		return nil
	}

	var metadata interface{}
	if len(e.Metadata) > 0 {
		metadata = json.RawMessage(e.Metadata)
	}

	_, err := l.Pool.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip, metadata)
VALUES ($1, $2, $3, $4, $5, $6)
`, e.UserID, e.Action, e.EntityType, e.EntityID, e.IP, metadata)

	return err
}
