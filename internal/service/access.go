// Package service provides the business logic of the engine: the
// visibility/edit resolver, the selective-encryption share workflow and the
// key expiry scheduler.
package service

import "cipherdoc/internal/models"

// DocumentSource defines the document operations needed by the resolver.
type DocumentSource interface {
	// PageIndexOf returns the page index containing the given unit, if the
	// unit exists.
	PageIndexOf(unitID int) (int, bool)
}

// GrantSource defines the registry operations needed by the resolver.
type GrantSource interface {
	// IsOwner reports whether the name is the document owner.
	IsOwner(name string) bool
	// UserByName returns the user with the given name, if registered.
	UserByName(name string) (models.User, bool)
	// GrantsFor returns the active grants for the named user.
	GrantsFor(name string) []models.Grant
}

// AccessResolver computes, per viewer and unit, whether the unit is visible
// and whether it is editable. Lookups never fail; absence of data degrades
// to the most restrictive answer.
type AccessResolver struct {
	docs     DocumentSource
	registry GrantSource
}

// NewAccessResolver constructs a resolver over the given document and
// registry sources.
func NewAccessResolver(docs DocumentSource, registry GrantSource) *AccessResolver {
	return &AccessResolver{docs: docs, registry: registry}
}

// IsVisible reports whether the viewer may see the unit. The owner sees
// everything; elevated-tier viewers see everything without grants;
// restricted-tier viewers see a unit only if some grant covers it. Grants
// are OR-combined, so any one matching grant suffices.
func (r *AccessResolver) IsVisible(viewer string, unitID int) bool {
	if r.registry.IsOwner(viewer) {
		return true
	}
	user, ok := r.registry.UserByName(viewer)
	if !ok {
		return false
	}
	if user.Tier.Elevated() {
		return true
	}
	for _, g := range r.registry.GrantsFor(viewer) {
		if r.covers(g.Scope, unitID) {
			return true
		}
	}
	return false
}

// IsEditable reports whether the viewer may edit the unit. The owner edits
// everything; elevated-tier viewers edit whatever they can see (which is
// everything); restricted-tier viewers are never editable regardless of
// grants.
func (r *AccessResolver) IsEditable(viewer string, unitID int) bool {
	if r.registry.IsOwner(viewer) {
		return true
	}
	user, ok := r.registry.UserByName(viewer)
	if !ok {
		return false
	}
	if !user.Tier.Elevated() {
		return false
	}
	return r.IsVisible(viewer, unitID)
}

func (r *AccessResolver) covers(scope models.Scope, unitID int) bool {
	switch scope.Type {
	case models.ScopeWhole:
		return true
	case models.ScopeLines:
		for _, id := range scope.UnitIDs {
			if id == unitID {
				return true
			}
		}
	case models.ScopePages:
		page, ok := r.docs.PageIndexOf(unitID)
		if !ok {
			return false
		}
		for _, p := range scope.PageIndices {
			if p == page {
				return true
			}
		}
	}
	return false
}
