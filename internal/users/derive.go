package users

import (
	"strings"

	"usermanager/internal/directory"
)

// FromRemote maps a Remote Directory record onto a mirror entry. Echoed form fields win
// over the split of the single name field.
func FromRemote(u directory.User) UserRecord {
	first, last := splitName(u.Name)
	if u.FirstName != "" || u.LastName != "" {
		first, last = orNA(u.FirstName), orNA(u.LastName)
	}
	return UserRecord{
		ID:         u.ID,
		FirstName:  first,
		LastName:   last,
		Email:      u.Email,
		Department: department(u),
	}
}

// FromRemoteList maps every record, keeping the directory's order.
func FromRemoteList(list []directory.User) []UserRecord {
	out := make([]UserRecord, 0, len(list))
	for _, u := range list {
		out = append(out, FromRemote(u))
	}
	return out
}

// splitName returns the first two space-separated tokens of name. Tokens past the second
// are dropped.
func splitName(name string) (string, string) {
	parts := strings.Split(name, " ")
	first := parts[0]
	last := ""
	if len(parts) > 1 {
		last = parts[1]
	}
	return orNA(first), orNA(last)
}

func department(u directory.User) string {
	if u.Company != nil && u.Company.Name != "" {
		return u.Company.Name
	}
	return orNA(u.Department)
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// toInput builds the request body for a form, carrying both the form fields and the
// remote-shaped name/company so any directory can store and echo it.
func toInput(f FormState) directory.UserInput {
	in := directory.UserInput{
		ID:         f.ID,
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		Department: f.Department,
		Name:       strings.TrimSpace(f.FirstName + " " + f.LastName),
	}
	if f.Department != "" {
		in.Company = &directory.Company{Name: f.Department}
	}
	return in
}
