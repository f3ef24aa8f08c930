package service

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cipherdoc/internal/aead"
	"cipherdoc/internal/metrics"
	"cipherdoc/internal/models"
)

// Workflow-level failures. All are recovered at the share-action boundary:
// logged, no partial artifact persists, prior state untouched.
var (
	// ErrEmptySelection means extraction yielded blank content.
	ErrEmptySelection = errors.New("selection is empty")
	// ErrNoActiveKey means a share was attempted before key activation.
	ErrNoActiveKey = errors.New("no active encryption key")
	// ErrUnknownContact means the share target is not in the directory.
	ErrUnknownContact = errors.New("unknown contact")
	// ErrNoLiveArtifact means no partial document is currently live.
	ErrNoLiveArtifact = errors.New("no live partial document")
)

// ShareState is the per-action state of the selective-encryption workflow.
type ShareState string

const (
	StateIdle        ShareState = "idle"
	StateExtracting  ShareState = "extracting"
	StateEncrypting  ShareState = "encrypting"
	StateFragmenting ShareState = "fragmenting"
	StateReady       ShareState = "ready"
	StateFailed      ShareState = "failed"
)

// EngineStatus is the coarse session state driven by key activation.
type EngineStatus string

const (
	// StatusIdle means no encryption key exists yet.
	StatusIdle EngineStatus = "idle"
	// StatusActivating means key generation is in progress.
	StatusActivating EngineStatus = "active"
	// StatusSecure means a session key is active.
	StatusSecure EngineStatus = "secure"
)

// DocumentReader defines the document operations needed by the workflow.
type DocumentReader interface {
	Units() []models.Unit
	Pages() []models.Page
}

// ContactSource defines the directory lookup needed by the workflow.
type ContactSource interface {
	ByID(id string) (models.Contact, bool)
}

// AuditSink receives human-readable audit entries for every step.
type AuditSink interface {
	Append(message string)
}

// ExpiryScheduler runs cancellable one-shot expiry tasks keyed by artifact
// ID.
type ExpiryScheduler interface {
	Schedule(id string, d time.Duration, fn func())
	Cancel(id string)
}

// ShareRequest describes one share action.
type ShareRequest struct {
	// Selection is the owner's line or page selection.
	Selection models.Selection
	// TargetID references a contact in the directory.
	TargetID string
	// Permission is the access level for the recipient.
	Permission models.ArtifactPermission
	// TimeoutMinutes is the key expiry in minutes; 0 means no expiry.
	TimeoutMinutes int
}

// ShareWorkflow runs the selective-encryption workflow
// (extract, encrypt, fragment, publish) and tracks the single live
// partial document together with its expiry. Replacing a live artifact
// destroys it, not just its pending timer.
type ShareWorkflow struct {
	mu       sync.Mutex
	docs     DocumentReader
	contacts ContactSource
	audit    AuditSink
	sched    ExpiryScheduler
	log      *zap.Logger

	key    *aead.Key
	status EngineStatus
	state  ShareState
	live   *models.PartialDocument
}

// NewShareWorkflow constructs a workflow over the given collaborators.
func NewShareWorkflow(
	docs DocumentReader,
	contacts ContactSource,
	audit AuditSink,
	sched ExpiryScheduler,
	log *zap.Logger,
) *ShareWorkflow {
	return &ShareWorkflow{
		docs:     docs,
		contacts: contacts,
		audit:    audit,
		sched:    sched,
		log:      log,
		status:   StatusIdle,
		state:    StateIdle,
	}
}

// ActivateKey generates the session encryption key. Until it succeeds,
// share actions fail with ErrNoActiveKey.
func (w *ShareWorkflow) ActivateKey() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = StatusActivating
	w.audit.Append("[info] initializing ephemeral encryption environment...")
	key, err := aead.GenerateKey()
	if err != nil {
		w.status = StatusIdle
		w.audit.Append(fmt.Sprintf("[error] key generation failed: %v", err))
		return fmt.Errorf("activate key: %w", err)
	}
	w.key = key
	w.status = StatusSecure
	w.audit.Append("[security] unique encryption key generated locally.")
	return nil
}

// Status returns the coarse session state.
func (w *ShareWorkflow) Status() EngineStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// State returns the state of the most recent share action.
func (w *ShareWorkflow) State() ShareState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// GeneratePartial runs one share action end to end. On success the returned
// artifact is published as the live partial document and, if a timeout is
// set, its expiry task is scheduled. On failure no artifact is created, no
// timer is scheduled and the previous live artifact is left untouched.
func (w *ShareWorkflow) GeneratePartial(req ShareRequest) (models.PartialDocument, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = StateExtracting
	content := w.extract(req.Selection)
	if strings.TrimSpace(content) == "" {
		return w.fail(ErrEmptySelection)
	}
	if w.key == nil {
		return w.fail(ErrNoActiveKey)
	}
	target, ok := w.contacts.ByID(req.TargetID)
	if !ok {
		return w.fail(fmt.Errorf("%w: %s", ErrUnknownContact, req.TargetID))
	}

	w.audit.Append(fmt.Sprintf("[info] encrypting partial document (mode: %s)...", req.Selection.Mode))

	w.state = StateEncrypting
	ciphertext, iv, err := w.key.Encrypt(content)
	if err != nil {
		return w.fail(fmt.Errorf("encrypt partial document: %w", err))
	}
	w.audit.Append("[security] partial document encrypted. IV generated.")

	w.state = StateFragmenting
	material := w.key.ExportMaterial()
	parts := SplitDualChannel(material)

	artifact := models.PartialDocument{
		ID:             "docp-" + uuid.NewString()[:8],
		Ciphertext:     hex.EncodeToString(ciphertext),
		IV:             hex.EncodeToString(iv),
		Content:        content,
		KeyMaterial:    material,
		Fragments:      parts,
		Target:         target,
		Permission:     req.Permission,
		TimeoutMinutes: req.TimeoutMinutes,
		Selection:      describeSelection(req.Selection),
	}

	w.state = StateReady
	// Publish: the previous live artifact is superseded, its pending expiry
	// cancelled and its content destroyed.
	if prev := w.live; prev != nil {
		w.sched.Cancel(prev.ID)
		if !prev.Destroyed {
			w.destroyLocked(prev)
			w.audit.Append(fmt.Sprintf("[share] partial doc %s superseded and destroyed.", prev.ID))
		}
	}
	w.live = &artifact

	w.audit.Append(fmt.Sprintf("[share] partial doc %s encrypted (AES-256). certificate of %s verified.", artifact.ID, target.Name))
	w.audit.Append(fmt.Sprintf("[share] key fragmented for dual-channel delivery: mail → %s | SMS → %s.", target.Email, target.Phone))
	w.audit.Append(fmt.Sprintf("[share] permissions=%s timeout=%dm", artifact.Permission, artifact.TimeoutMinutes))

	if req.TimeoutMinutes > 0 {
		id := artifact.ID
		w.sched.Schedule(id, time.Duration(req.TimeoutMinutes)*time.Minute, func() {
			w.expire(id)
		})
	}

	metrics.ShareAttempts.WithLabelValues("ready").Inc()
	w.log.Info("partial document published",
		zap.String("artifact", artifact.ID),
		zap.String("target", target.Name),
		zap.Int("timeoutMinutes", req.TimeoutMinutes))
	return artifact, nil
}

// fail records a failed share action. Must be called with the mutex held.
func (w *ShareWorkflow) fail(err error) (models.PartialDocument, error) {
	w.state = StateFailed
	w.audit.Append(fmt.Sprintf("[error] share aborted: %v", err))
	metrics.ShareAttempts.WithLabelValues("failed").Inc()
	return models.PartialDocument{}, err
}

// Live returns a copy of the live partial document, if any.
func (w *ShareWorkflow) Live() (models.PartialDocument, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.live == nil {
		return models.PartialDocument{}, false
	}
	return *w.live, true
}

// Close destroys the live partial document by explicit owner action and
// cancels its pending expiry. Returns ErrNoLiveArtifact if nothing is live.
func (w *ShareWorkflow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.live == nil {
		return ErrNoLiveArtifact
	}
	w.sched.Cancel(w.live.ID)
	id := w.live.ID
	if !w.live.Destroyed {
		w.destroyLocked(w.live)
	}
	w.live = nil
	w.audit.Append(fmt.Sprintf("[share] partial doc %s closed by owner.", id))
	return nil
}

// DecryptPreview re-imports the artifact's key material and decrypts its
// ciphertext, as the recipient would after reassembling the fragments.
// Integrity failures are surfaced, never swallowed.
func (w *ShareWorkflow) DecryptPreview() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.live == nil || w.live.Destroyed {
		return "", ErrNoLiveArtifact
	}
	material, err := hex.DecodeString(w.live.KeyMaterial)
	if err != nil {
		return "", fmt.Errorf("decode key material: %w", err)
	}
	key, err := aead.NewKey(material)
	if err != nil {
		return "", fmt.Errorf("import key: %w", err)
	}
	ciphertext, err := hex.DecodeString(w.live.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	iv, err := hex.DecodeString(w.live.IV)
	if err != nil {
		return "", fmt.Errorf("decode iv: %w", err)
	}
	return key.Decrypt(ciphertext, iv)
}

// expire destroys the artifact with the given ID if it is still live.
// Firing twice, or firing after manual closure or replacement, is a no-op.
func (w *ShareWorkflow) expire(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.live == nil || w.live.ID != id || w.live.Destroyed {
		return
	}
	w.destroyLocked(w.live)
	w.live = nil
	w.audit.Append(fmt.Sprintf("[expiry] key expired for %s. partial document destroyed.", id))
	metrics.KeyExpiries.Inc()
	w.log.Info("partial document expired", zap.String("artifact", id))
}

// destroyLocked wipes artifact content and key material. Must be called
// with the mutex held.
func (w *ShareWorkflow) destroyLocked(a *models.PartialDocument) {
	a.Ciphertext = ""
	a.IV = ""
	a.Content = ""
	a.KeyMaterial = ""
	a.Fragments = models.KeyFragments{}
	a.Destroyed = true
	metrics.ArtifactsDestroyed.Inc()
}

// extract concatenates the text of the selection in document order. Line
// mode joins the selected units with newlines; page mode joins each
// selected page's units with newlines and the pages themselves with a
// newline, in ascending page-index order regardless of selection order.
func (w *ShareWorkflow) extract(sel models.Selection) string {
	units := w.docs.Units()
	if sel.Mode == models.SelectByLine {
		wanted := make(map[int]bool, len(sel.UnitIDs))
		for _, id := range sel.UnitIDs {
			wanted[id] = true
		}
		var picked []string
		for _, u := range units {
			if wanted[u.ID] {
				picked = append(picked, u.Text)
			}
		}
		return strings.Join(picked, "\n")
	}

	pages := w.docs.Pages()
	indices := append([]int(nil), sel.Pages...)
	sort.Ints(indices)
	var chunks []string
	for _, idx := range indices {
		if idx < 0 || idx >= len(pages) {
			continue
		}
		p := pages[idx]
		lines := make([]string, 0, p.End-p.Start)
		for _, u := range units[p.Start:p.End] {
			lines = append(lines, u.Text)
		}
		chunks = append(chunks, strings.Join(lines, "\n"))
	}
	return strings.Join(chunks, "\n")
}

// SplitDualChannel splits exported key material into two contiguous,
// non-overlapping fragments for delivery over two independent channels.
// The first fragment holds ceil(len/2) characters and the concatenation of
// both fragments reproduces the input exactly.
func SplitDualChannel(key string) models.KeyFragments {
	mid := (len(key) + 1) / 2
	return models.KeyFragments{Email: key[:mid], SMS: key[mid:]}
}

// describeSelection records the covered indices for the artifact payload.
func describeSelection(sel models.Selection) models.SelectionDescriptor {
	if sel.Mode == models.SelectByLine {
		return models.SelectionDescriptor{Type: models.SelectByLine, Indices: append([]int(nil), sel.UnitIDs...)}
	}
	return models.SelectionDescriptor{Type: models.SelectByPage, Indices: append([]int(nil), sel.Pages...)}
}
