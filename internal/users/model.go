package users

// NotAvailable fills derived fields the Remote Directory did not provide.
const NotAvailable = "N/A"

// UserRecord is one entry of the local mirror.
type UserRecord struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// FormState is the draft bound to the input form. ID is zero while creating.
type FormState struct {
	ID         int64  `json:"id,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Record converts the form into the mirror entry it describes.
func (f FormState) Record() UserRecord {
	return UserRecord{
		ID:         f.ID,
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		Department: f.Department,
	}
}

// IsZero reports whether the form is the empty record.
func (f FormState) IsZero() bool {
	return f == FormState{}
}

// Mode selects what submitting the form does.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// MarshalText renders the mode as "create" or "edit".
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is a point-in-time copy of everything the page renders.
type State struct {
	Users []UserRecord `json:"users"`
	Form  FormState    `json:"form"`
	Mode  Mode         `json:"mode"`
	Error string       `json:"error,omitempty"`
}

// Editing reports whether submitting updates an existing user.
func (s State) Editing() bool {
	return s.Mode == ModeEdit
}
