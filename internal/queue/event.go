// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditEvent is published after every successful inventory, classification
// or review mutation. It carries enough context for downstream consumers
// to build an audit trail without querying the primary database.
type AuditEvent struct {
	ActorID    uint64 `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	Action     string `json:"action"` // "create" | "update" | "delete"
	Entity     string `json:"entity"` // "classification" | "inventory" | "review"
	EntityID   uint64 `json:"entity_id"`
	Summary    string `json:"summary"`
	OccurredAt string `json:"occurred_at"`
}
