package repository

import (
	"sync"

	"cipherdoc/internal/models"
)

// ShareRegistry stores the session users and, per user, the active
// disclosure grants. The owner is a distinguished user that is never
// subject to grant checks.
type ShareRegistry struct {
	mu     sync.Mutex
	owner  string
	users  map[string]models.User
	order  []string
	grants map[string][]models.Grant
}

// NewShareRegistry creates a registry with the given owner name. The owner
// is registered implicitly with the elevated tier.
func NewShareRegistry(owner string) *ShareRegistry {
	r := &ShareRegistry{
		owner:  owner,
		users:  make(map[string]models.User),
		grants: make(map[string][]models.Grant),
	}
	r.AddUser(models.User{Name: owner, Tier: models.TierElevated})
	return r
}

// Owner returns the owner's name.
func (r *ShareRegistry) Owner() string {
	return r.owner
}

// IsOwner reports whether the given name is the document owner.
func (r *ShareRegistry) IsOwner(name string) bool {
	return name == r.owner
}

// AddUser registers a user, replacing any existing entry with the same name.
func (r *ShareRegistry) AddUser(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Name]; !ok {
		r.order = append(r.order, u.Name)
	}
	r.users[u.Name] = u
}

// Users returns the registered users in registration order.
func (r *ShareRegistry) Users() []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.users[name])
	}
	return out
}

// UserByName returns the user with the given name, if registered.
func (r *ShareRegistry) UserByName(name string) (models.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[name]
	return u, ok
}

// ShareWith applies a share action: for every named user, all prior grants
// are removed, the user's base tier is updated, and a single new grant is
// added according to the scope. A line or page scope with an empty set adds
// no grant; the user then keeps only their base tier. The owner is skipped.
func (r *ShareRegistry) ShareWith(targets []models.ShareTarget, scope models.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range targets {
		if t.Name == r.owner {
			continue
		}
		u, ok := r.users[t.Name]
		if !ok {
			u = models.User{Name: t.Name}
			r.order = append(r.order, t.Name)
		}
		u.Tier = t.Tier
		r.users[t.Name] = u

		// Full-replace semantics: the latest share action supersedes all
		// prior grants for the user.
		delete(r.grants, t.Name)
		switch scope.Type {
		case models.ScopeWhole:
			r.grants[t.Name] = []models.Grant{{User: t.Name, Scope: scope}}
		case models.ScopeLines:
			if len(scope.UnitIDs) > 0 {
				r.grants[t.Name] = []models.Grant{{User: t.Name, Scope: scope}}
			}
		case models.ScopePages:
			if len(scope.PageIndices) > 0 {
				r.grants[t.Name] = []models.Grant{{User: t.Name, Scope: scope}}
			}
		}
	}
}

// GrantsFor returns the active grants for the named user, possibly empty.
func (r *ShareRegistry) GrantsFor(name string) []models.Grant {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Grant, len(r.grants[name]))
	copy(out, r.grants[name])
	return out
}
