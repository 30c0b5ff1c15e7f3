package models

import "testing"

func TestIdentity(t *testing.T) {
	a, b := newIdentity(), newIdentity()
	if a.LocalId == b.LocalId || a.IsPersisted() {
		t.Fatalf("new identities should be unique and local only")
	}
	if !a.SameLocal(a.clone()) || a.SameLocal(b) || (Identity{}).SameLocal(Identity{}) {
		t.Fatalf("unexpected SameLocal results")
	}
	if a.SameServer(a) {
		t.Fatalf("unsaved identities are never reconciled with the server")
	}

	p, q := persistedIdentity(4), persistedIdentity(4)
	if p.LocalId != "4" || !p.SameServer(q) || !p.SameLocal(q) {
		t.Fatalf("persisted identity should back-fill its local id, got %+v", p)
	}
	c := p.clone()
	*c.PersistedId = 5
	if *p.PersistedId != 4 {
		t.Fatalf("clone should not share the persisted id")
	}
}
