package users

import (
	"context"
	"errors"
	"strings"
	"sync"

	"usermanager/internal/directory"
	"usermanager/internal/shared/metrics"
	"usermanager/internal/shared/telemetry"
)

// Directory is the Remote Directory as the manager uses it. *directory.Client satisfies it.
type Directory interface {
	List(ctx context.Context) ([]directory.User, error)
	Create(ctx context.Context, in directory.UserInput) (directory.User, error)
	Update(ctx context.Context, id int64, in directory.UserInput) (directory.User, error)
	Delete(ctx context.Context, id int64) error
}

// Manager owns the local mirror, the form, the mode and the error channel.
//
// Network calls run without holding the lock. Their completions patch the current
// mirror (append, replace by id, remove by id) so overlapping actions do not lose each
// other's changes. A fetch replaces the mirror wholesale only if no mutation landed
// while it was in flight.
type Manager struct {
	dir Directory

	mu      sync.Mutex
	users   []UserRecord
	version uint64
	form    FormState
	mode    Mode
	errMsg  string
}

// NewManager returns an empty manager backed by dir.
func NewManager(dir Directory) *Manager {
	return &Manager{dir: dir}
}

// State returns a copy of the manager's state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Users: append([]UserRecord(nil), m.users...),
		Form:  m.form,
		Mode:  m.mode,
		Error: m.errMsg,
	}
}

// Users returns a copy of the mirror.
func (m *Manager) Users() []UserRecord {
	return m.State().Users
}

// Err returns the latest error message, or "".
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// Fetch reloads the mirror from the Remote Directory.
func (m *Manager) Fetch(ctx context.Context) error {
	m.mu.Lock()
	issued := m.version
	m.mu.Unlock()

	list, err := m.dir.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return m.failLocked("fetch", MsgFetchFailed, err)
	}
	if m.version != issued {
		metrics.IncStaleFetch()
		telemetry.Warn("users.fetch.stale", map[string]any{
			"issued_version":  issued,
			"current_version": m.version,
		})
		return ErrStaleFetch
	}
	m.users = FromRemoteList(list)
	m.version++
	telemetry.Info("users.fetch.complete", map[string]any{"count": len(m.users)})
	return nil
}

// Submit creates or updates depending on the mode.
func (m *Manager) Submit(ctx context.Context) error {
	m.mu.Lock()
	mode := m.mode
	m.mu.Unlock()
	if mode == ModeEdit {
		return m.Update(ctx)
	}
	return m.Create(ctx)
}

// Create sends the form as a new user and appends the created record to the mirror.
func (m *Manager) Create(ctx context.Context) error {
	m.mu.Lock()
	form, mode := m.form, m.mode
	m.mu.Unlock()
	if err := validate(form); err != nil {
		return err
	}

	created, err := m.dir.Create(ctx, toInput(form))

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return m.failLocked("create", MsgAddFailed, err)
	}
	rec := FromRemote(created)
	if i := m.indexLocked(rec.ID); i >= 0 {
		// The directory reused an id; keep ids unique in the mirror.
		m.users[i] = rec
	} else {
		m.users = append(m.users, rec)
	}
	m.version++
	m.resetFormLocked(form, mode)
	return nil
}

// Edit loads rec into the form and switches to edit mode.
func (m *Manager) Edit(rec UserRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = FormState{
		ID:         rec.ID,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Email:      rec.Email,
		Department: rec.Department,
	}
	m.mode = ModeEdit
}

// EditByID is Edit for the mirror entry with the given id.
func (m *Manager) EditByID(id int64) error {
	m.mu.Lock()
	i := m.indexLocked(id)
	var rec UserRecord
	if i >= 0 {
		rec = m.users[i]
	}
	m.mu.Unlock()
	if i < 0 {
		return ErrUnknownUser
	}
	m.Edit(rec)
	return nil
}

// Update sends the form to the user it carries the id of, then writes the form itself
// into the mirror.
func (m *Manager) Update(ctx context.Context) error {
	m.mu.Lock()
	form, mode := m.form, m.mode
	m.mu.Unlock()
	if form.ID == 0 {
		return ErrNoSelection
	}
	if err := validate(form); err != nil {
		return err
	}

	_, err := m.dir.Update(ctx, form.ID, toInput(form))

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return m.failLocked("update", MsgUpdateFailed, err)
	}
	if i := m.indexLocked(form.ID); i >= 0 {
		m.users[i] = form.Record()
		m.version++
	}
	m.resetFormLocked(form, mode)
	return nil
}

// Delete removes the user from the Remote Directory and then from the mirror.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	err := m.dir.Delete(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return m.failLocked("delete", MsgDeleteFailed, err)
	}
	if i := m.indexLocked(id); i >= 0 {
		m.users = append(m.users[:i:i], m.users[i+1:]...)
		m.version++
	}
	return nil
}

// SetForm replaces the form fields. The id is kept in edit mode and cleared otherwise.
func (m *Manager) SetForm(f FormState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeEdit {
		f.ID = m.form.ID
	} else {
		f.ID = 0
	}
	m.form = f
}

// SetField updates one form field by its input name.
func (m *Manager) SetField(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch name {
	case "firstName":
		m.form.FirstName = value
	case "lastName":
		m.form.LastName = value
	case "email":
		m.form.Email = value
	case "department":
		m.form.Department = value
	default:
		return ErrUnknownField
	}
	return nil
}

// CancelEdit drops the draft and returns to create mode.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = FormState{}
	m.mode = ModeCreate
}

// DismissError empties the error channel.
func (m *Manager) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = ""
}

func (m *Manager) failLocked(op, msg string, err error) error {
	m.errMsg = msg
	if errors.Is(err, context.Canceled) {
		telemetry.Warn("users.action.canceled", map[string]any{"op": op})
	}
	return &ActionError{Op: op, Message: msg, Err: err}
}

// resetFormLocked clears the form after a successful submit, unless the form or mode
// moved on while the request was in flight.
func (m *Manager) resetFormLocked(sent FormState, sentMode Mode) {
	if m.form != sent || m.mode != sentMode {
		return
	}
	m.form = FormState{}
	m.mode = ModeCreate
}

func (m *Manager) indexLocked(id int64) int {
	for i, u := range m.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func validate(f FormState) error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"email", f.Email},
		{"department", f.Department},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
