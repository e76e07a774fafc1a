package workflow

import (
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
)

// Table is a transition table for one entity kind. Each edge maps a
// (from, action) pair to the next status; each action is gated by exactly
// one permission regardless of the status it is invoked from, so permission
// checks stay answerable before transition legality is considered.
type Table[S ~string, A ~string] struct {
	edges map[edgeKey[S, A]]S
	perms map[A]rbac.Permission
}

type edgeKey[S ~string, A ~string] struct {
	from   S
	action A
}

// NewTable returns an empty transition table.
func NewTable[S ~string, A ~string]() *Table[S, A] {
	return &Table[S, A]{
		edges: make(map[edgeKey[S, A]]S),
		perms: make(map[A]rbac.Permission),
	}
}

// Add registers an edge. The permission recorded for an action must be the
// same across all of its edges; the first registration wins.
func (t *Table[S, A]) Add(from S, action A, to S, perm rbac.Permission) *Table[S, A] {
	t.edges[edgeKey[S, A]{from: from, action: action}] = to
	if _, ok := t.perms[action]; !ok {
		t.perms[action] = perm
	}
	return t
}

// Permission returns the permission gating an action.
func (t *Table[S, A]) Permission(action A) (rbac.Permission, bool) {
	p, ok := t.perms[action]
	return p, ok
}

// Next resolves the status reached by invoking action from the given status.
func (t *Table[S, A]) Next(from S, action A) (S, bool) {
	to, ok := t.edges[edgeKey[S, A]{from: from, action: action}]
	return to, ok
}

// Actions lists the actions legal from the given status.
func (t *Table[S, A]) Actions(from S) []A {
	var out []A
	for key := range t.edges {
		if key.from == from {
			out = append(out, key.action)
		}
	}
	return out
}

// Terminal reports whether no action is legal from the given status.
func (t *Table[S, A]) Terminal(from S) bool {
	for key := range t.edges {
		if key.from == from {
			return false
		}
	}
	return true
}

// Authorize checks the actor's role against the permission gating the
// action, then resolves the transition. The permission check runs first so
// an actor without the capability learns nothing about transition legality.
func (t *Table[S, A]) Authorize(role rbac.Role, from S, action A) (S, error) {
	perm, known := t.perms[action]
	if !known || !rbac.HasPermission(role, perm) {
		return from, appErrors.ErrPermissionDenied
	}
	to, ok := t.Next(from, action)
	if !ok {
		return from, appErrors.ErrInvalidTransition
	}
	return to, nil
}
