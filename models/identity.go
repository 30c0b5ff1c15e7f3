package models

import (
	"strconv"

	"github.com/google/uuid"
)

// Identity is embedded in every form entity.
// LocalId is stable for the editing session only; PersistedId is assigned by the database.
type Identity struct {
	LocalId     string `json:"local_id"`
	PersistedId *int   `json:"persisted_id,omitempty"`
}

func NewLocalId() string {
	return uuid.NewString()
}

func newIdentity() Identity {
	return Identity{LocalId: NewLocalId()}
}

// persistedIdentity back-fills the local id from the persisted id,
// so entities loaded from the store are already "linked" to each other.
func persistedIdentity(id int) Identity {
	return Identity{LocalId: strconv.Itoa(id), PersistedId: &id}
}

func (i Identity) IsPersisted() bool {
	return i.PersistedId != nil
}

// SameLocal is the "already linked" check.
func (i Identity) SameLocal(other Identity) bool {
	return i.LocalId != "" && i.LocalId == other.LocalId
}

// SameServer is the "reconciled with server" check.
func (i Identity) SameServer(other Identity) bool {
	return i.PersistedId != nil && other.PersistedId != nil && *i.PersistedId == *other.PersistedId
}

func (i Identity) clone() Identity {
	return Identity{LocalId: i.LocalId, PersistedId: cloneIntPtr(i.PersistedId)}
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
