package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicEntityChangedV1 = "accountability.entity.changed.v1"
	EventVersionV1       = 1
)

const (
	ChangeSaved   = "saved"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// EntityChangedV1 is published once per persisted change after the
// operation's store transaction commits.
type EntityChangedV1 struct {
	EventID         uuid.UUID `json:"event_id"`
	EventVersion    int       `json:"event_version"`
	RequestID       string    `json:"request_id"`
	TransactionTime time.Time `json:"transaction_time"`
	ActorID         string    `json:"actor_id"`
	Operation       string    `json:"operation"`
	ChangeType      string    `json:"change_type"`
	EntityType      string    `json:"entity_type"`
	EntityID        string    `json:"entity_id"`
	Field           string    `json:"field,omitempty"`
}

func NewEntityChangedV1(requestID, actorID, operation, changeType, entityType, entityID string) *EntityChangedV1 {
	return &EntityChangedV1{
		EventID:         uuid.New(),
		EventVersion:    EventVersionV1,
		RequestID:       requestID,
		TransactionTime: time.Now().UTC(),
		ActorID:         actorID,
		Operation:       operation,
		ChangeType:      changeType,
		EntityType:      entityType,
		EntityID:        entityID,
	}
}
