package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is what an entity store needs from a catalog record.
type Document interface {
	Kind() Kind
	TableName() string

	GetStorageID() uuid.UUID
	SetStorageID(id uuid.UUID)
	GetDomainID() int64
	SetDomainID(id int64)
	Timestamps() (created, updated time.Time)
	SetTimestamps(created, updated time.Time)

	// Prepare normalizes the record and fills derived columns before a write.
	Prepare()
	// FieldValue returns the value stored under a filterable column.
	FieldValue(column string) (any, bool)
	Validate() error
	CloneDocument() Document
}

// Change is emitted after every successful write.
type Change struct {
	Kind      Kind         `json:"kind"`
	Action    ChangeAction `json:"action"`
	StorageID uuid.UUID    `json:"_id"`
	DomainID  int64        `json:"id"`
	At        time.Time    `json:"at"`
}

type ChangeAction string

const (
	ChangeCreated  ChangeAction = "created"
	ChangeReplaced ChangeAction = "replaced"
	ChangeUpdated  ChangeAction = "updated"
	ChangeDeleted  ChangeAction = "deleted"
)

func NewChange(doc Document, action ChangeAction, at time.Time) Change {
	return Change{
		Kind:      doc.Kind(),
		Action:    action,
		StorageID: doc.GetStorageID(),
		DomainID:  doc.GetDomainID(),
		At:        at.UTC(),
	}
}

// Fold is the case folding used by case-insensitive filters. Stores keep a
// folded copy of searchable text so SQL and in-memory matching agree.
func Fold(s string) string { return strings.ToLower(s) }
