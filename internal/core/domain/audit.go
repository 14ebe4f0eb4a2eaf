package domain

import "time"

// AuditEvent is one entry in the append-only admin audit trail. Action is the
// only required field; the rest is optional diff context.
type AuditEvent struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Action    string    `json:"action" bson:"action"`
	Table     string    `json:"table,omitempty" bson:"table,omitempty"`
	RecordID  string    `json:"record_id,omitempty" bson:"record_id,omitempty"`
	OldData   any       `json:"old_data,omitempty" bson:"old_data,omitempty"`
	NewData   any       `json:"new_data,omitempty" bson:"new_data,omitempty"`
	Actor     string    `json:"actor,omitempty" bson:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
