package service_test

import (
	"testing"

	"cipherdoc/internal/models"
	"cipherdoc/internal/repository"
	"cipherdoc/internal/service"
)

// newResolver builds a resolver over a 9-unit document with 3 lines per
// page and a registry holding one elevated and one restricted user.
func newResolver(t *testing.T) (*service.AccessResolver, *repository.DocumentStore, *repository.ShareRegistry) {
	t.Helper()
	docs := repository.NewDocumentStore(3)
	for i := 0; i < 9; i++ {
		docs.Append("line")
	}
	registry := repository.NewShareRegistry("owner")
	registry.AddUser(models.User{Name: "editor", Tier: models.TierElevated})
	registry.AddUser(models.User{Name: "guest", Tier: models.TierRestricted})
	return service.NewAccessResolver(docs, registry), docs, registry
}

func TestIsVisible_OwnerAlwaysTrue(t *testing.T) {
	r, docs, _ := newResolver(t)
	for _, u := range docs.Units() {
		if !r.IsVisible("owner", u.ID) {
			t.Errorf("IsVisible(owner, %d) = false", u.ID)
		}
		if !r.IsEditable("owner", u.ID) {
			t.Errorf("IsEditable(owner, %d) = false", u.ID)
		}
	}
}

func TestIsVisible_UnknownViewerAlwaysFalse(t *testing.T) {
	r, docs, _ := newResolver(t)
	for _, u := range docs.Units() {
		if r.IsVisible("stranger", u.ID) {
			t.Errorf("IsVisible(stranger, %d) = true", u.ID)
		}
		if r.IsEditable("stranger", u.ID) {
			t.Errorf("IsEditable(stranger, %d) = true", u.ID)
		}
	}
}

func TestElevatedTier_SeesAndEditsEverything(t *testing.T) {
	r, docs, _ := newResolver(t)
	for _, u := range docs.Units() {
		if !r.IsVisible("editor", u.ID) {
			t.Errorf("IsVisible(editor, %d) = false; elevated tier needs no grants", u.ID)
		}
		if !r.IsEditable("editor", u.ID) {
			t.Errorf("IsEditable(editor, %d) = false; elevated tier edits everywhere", u.ID)
		}
	}
}

func TestRestrictedTier_NoGrantsSeesNothing(t *testing.T) {
	r, docs, _ := newResolver(t)
	for _, u := range docs.Units() {
		if r.IsVisible("guest", u.ID) {
			t.Errorf("IsVisible(guest, %d) = true without grants", u.ID)
		}
	}
}

func TestWholeGrant_VisibleButNeverEditable(t *testing.T) {
	r, docs, registry := newResolver(t)
	registry.ShareWith(
		[]models.ShareTarget{{Name: "guest", Tier: models.TierRestricted}},
		models.WholeScope(),
	)
	for _, u := range docs.Units() {
		if !r.IsVisible("guest", u.ID) {
			t.Errorf("IsVisible(guest, %d) = false with whole grant", u.ID)
		}
		if r.IsEditable("guest", u.ID) {
			t.Errorf("IsEditable(guest, %d) = true; restricted tier never edits", u.ID)
		}
	}
}

func TestLineGrant_CoversOnlyGrantedUnits(t *testing.T) {
	r, _, registry := newResolver(t)
	registry.ShareWith(
		[]models.ShareTarget{{Name: "guest", Tier: models.TierRestricted}},
		models.LineScope(2, 4),
	)
	if !r.IsVisible("guest", 2) {
		t.Error("IsVisible(guest, 2) = false; want true")
	}
	if !r.IsVisible("guest", 4) {
		t.Error("IsVisible(guest, 4) = false; want true")
	}
	if r.IsVisible("guest", 3) {
		t.Error("IsVisible(guest, 3) = true; want false")
	}
}

func TestPageGrant_CoversUnitsOnPage(t *testing.T) {
	r, _, registry := newResolver(t)
	// Page 1 spans positions [3,6) of the 3-per-page partition.
	registry.ShareWith(
		[]models.ShareTarget{{Name: "guest", Tier: models.TierRestricted}},
		models.PageScope(1),
	)
	for id := 3; id < 6; id++ {
		if !r.IsVisible("guest", id) {
			t.Errorf("IsVisible(guest, %d) = false; unit is on granted page", id)
		}
	}
	for _, id := range []int{0, 2, 6, 8} {
		if r.IsVisible("guest", id) {
			t.Errorf("IsVisible(guest, %d) = true; unit is off the granted page", id)
		}
	}
}

func TestReShare_ReplacesPriorGrants(t *testing.T) {
	r, _, registry := newResolver(t)
	target := []models.ShareTarget{{Name: "guest", Tier: models.TierRestricted}}

	registry.ShareWith(target, models.LineScope(1))
	registry.ShareWith(target, models.LineScope(2))

	if r.IsVisible("guest", 1) {
		t.Error("IsVisible(guest, 1) = true; prior grant should be replaced")
	}
	if !r.IsVisible("guest", 2) {
		t.Error("IsVisible(guest, 2) = false; want true")
	}
}
