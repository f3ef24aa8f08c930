// Package models defines the core data structures for documents, users,
// disclosure grants and partial document artifacts.
package models

// Unit is the smallest addressable slice of document text (a line).
// IDs are stable, unique and monotonically increasing; document order is
// the order of the unit sequence, not the ID value.
type Unit struct {
	// ID is the unique identifier for the unit.
	ID int `json:"id"`
	// Text is the plain-text content of the unit.
	Text string `json:"text"`
}

// Page is a contiguous run of units, derived from the unit sequence and a
// page size. It is never stored; it is recomputed on demand.
type Page struct {
	// Index is the zero-based page index.
	Index int `json:"index"`
	// Start is the position of the first unit on the page.
	Start int `json:"start"`
	// End is the position just past the last unit on the page.
	End int `json:"end"`
}

// PermissionTier is the base permission class of a user.
// There are exactly two behavioral classes: an elevated tier that sees and
// edits everything, and a restricted tier that sees only explicitly granted
// content and never edits.
type PermissionTier string

const (
	// TierElevated grants full visibility and edit rights on the whole
	// document without any explicit disclosure grant.
	TierElevated PermissionTier = "elevated"
	// TierRestricted grants nothing by itself; visibility comes only from
	// disclosure grants, and editing is never allowed.
	TierRestricted PermissionTier = "restricted"
)

// Elevated reports whether the tier belongs to the trusted class.
func (t PermissionTier) Elevated() bool {
	return t == TierElevated
}

// User is a participant in the document session.
type User struct {
	// Name is the unique key identifying the user.
	Name string `json:"name"`
	// Tier is the user's base permission class.
	Tier PermissionTier `json:"tier"`
	// Color is a display-only accent color.
	Color string `json:"color"`
}

// ScopeType discriminates the coverage of a disclosure grant.
type ScopeType string

const (
	// ScopeWhole covers the entire document.
	ScopeWhole ScopeType = "whole"
	// ScopeLines covers an explicit set of unit IDs.
	ScopeLines ScopeType = "lines"
	// ScopePages covers an explicit set of page indices.
	ScopePages ScopeType = "pages"
)

// Scope describes what part of the document a grant discloses.
// UnitIDs is meaningful only for ScopeLines, PageIndices only for ScopePages.
type Scope struct {
	Type        ScopeType `json:"type"`
	UnitIDs     []int     `json:"unitIds,omitempty"`
	PageIndices []int     `json:"pageIndices,omitempty"`
}

// WholeScope returns a scope covering the entire document.
func WholeScope() Scope { return Scope{Type: ScopeWhole} }

// LineScope returns a scope covering the given unit IDs.
func LineScope(ids ...int) Scope { return Scope{Type: ScopeLines, UnitIDs: ids} }

// PageScope returns a scope covering the given page indices.
func PageScope(indices ...int) Scope { return Scope{Type: ScopePages, PageIndices: indices} }

// Grant binds a user to a disclosed scope. A user may hold several grants;
// effective visibility is the union of their coverage.
type Grant struct {
	// User references User.Name.
	User string `json:"user"`
	// Scope is the disclosed coverage.
	Scope Scope `json:"scope"`
}

// SelectionMode chooses the granularity of a selection.
type SelectionMode string

const (
	// SelectByLine selects individual units.
	SelectByLine SelectionMode = "line"
	// SelectByPage selects whole pages.
	SelectByPage SelectionMode = "page"
)

// Selection is the transient selection state of the owner's editor.
// Line and page selections are mutually exclusive; switching the mode
// clears the other set.
type Selection struct {
	Mode    SelectionMode `json:"mode"`
	UnitIDs []int         `json:"unitIds,omitempty"`
	Pages   []int         `json:"pages,omitempty"`
}

// SwitchMode changes the selection granularity, clearing the set that
// belongs to the previous mode.
func (s *Selection) SwitchMode(mode SelectionMode) {
	if s.Mode == mode {
		return
	}
	s.Mode = mode
	if mode == SelectByLine {
		s.Pages = nil
	} else {
		s.UnitIDs = nil
	}
}

// ToggleUnit adds the unit ID to a line selection, or removes it if already
// selected.
func (s *Selection) ToggleUnit(id int) {
	s.UnitIDs = toggle(s.UnitIDs, id)
}

// TogglePage adds the page index to a page selection, or removes it if
// already selected.
func (s *Selection) TogglePage(index int) {
	s.Pages = toggle(s.Pages, index)
}

func toggle(set []int, v int) []int {
	for i, x := range set {
		if x == v {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

// ShareTarget names a user in a share action together with the base tier
// the owner assigns to them.
type ShareTarget struct {
	// Name references User.Name.
	Name string `json:"name"`
	// Tier is the base permission tier assigned by the share action.
	Tier PermissionTier `json:"tier"`
}

// ArtifactPermission is the permission level attached to a shared partial
// document.
type ArtifactPermission string

const (
	// PermissionRead allows the recipient to read the shared content.
	PermissionRead ArtifactPermission = "read"
	// PermissionWrite allows the recipient to read and edit it.
	PermissionWrite ArtifactPermission = "write"
)

// KeyFragments is a symmetric key split into two contiguous pieces for
// delivery over two independent out-of-band channels.
type KeyFragments struct {
	// Email is the first fragment, delivered by mail.
	Email string `json:"email"`
	// SMS is the second fragment, delivered by phone.
	SMS string `json:"sms"`
}

// CertStatus is the display-only certificate state of a contact.
type CertStatus string

const (
	CertValid        CertStatus = "valid"
	CertExpiringSoon CertStatus = "expiring-soon"
)

// Contact is an entry of the static contact directory used to label share
// targets. No real certificate validation is performed.
type Contact struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Phone string     `json:"phone"`
	Cert  CertStatus `json:"cert"`
}

// SelectionDescriptor records which part of the document an artifact covers.
type SelectionDescriptor struct {
	Type    SelectionMode `json:"type"`
	Indices []int         `json:"indices"`
}

// PartialDocument is the encrypted, scoped export produced by a share
// action. KeyMaterial and Content are retained only so the demo can show a
// preview; a production system must not keep either after creation.
type PartialDocument struct {
	// ID is the unique artifact identifier.
	ID string `json:"id"`
	// Ciphertext is the hex-encoded encrypted content.
	Ciphertext string `json:"encrypted"`
	// IV is the hex-encoded nonce used for encryption.
	IV string `json:"iv"`
	// Content is the decrypted preview of the shared content.
	Content string `json:"content"`
	// KeyMaterial is the hex-encoded symmetric key.
	KeyMaterial string `json:"key"`
	// Fragments holds the dual-channel key split.
	Fragments KeyFragments `json:"parts"`
	// Target is the contact the artifact is shared with.
	Target Contact `json:"target"`
	// Permission is the access level granted to the target.
	Permission ArtifactPermission `json:"permission"`
	// TimeoutMinutes is the key expiry in minutes; 0 means no expiry.
	TimeoutMinutes int `json:"timeoutMinutes"`
	// Selection describes the covered lines or pages.
	Selection SelectionDescriptor `json:"selection"`
	// Destroyed is set once the artifact content has been wiped.
	Destroyed bool `json:"destroyed"`
}

// AuditEntry is one line of the append-only security log.
type AuditEntry struct {
	// Timestamp is the wall-clock time of the entry, formatted HH:MM:SS.
	Timestamp string `json:"timestamp"`
	// Message is the human-readable description of the event.
	Message string `json:"message"`
}
