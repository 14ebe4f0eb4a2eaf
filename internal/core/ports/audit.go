package ports

import "context"

// AuditLogger is the fire-and-forget audit trail every admin operation calls
// into. Implementations must never block the caller or let an error escape;
// action is the only required argument.
type AuditLogger interface {
	Log(ctx context.Context, action, table, recordID string, oldData, newData any)
}
