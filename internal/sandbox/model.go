package sandbox

import (
	"strings"
	"time"
)

// Record is one stored directory user.
type Record struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Website     string    `json:"website"`
	CompanyName string    `json:"-"`
	FirstName   string    `json:"-"`
	LastName    string    `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

type companyBody struct {
	Name string `json:"name"`
}

// userBody is the wire shape of a directory user, both in and out.
type userBody struct {
	ID       int64        `json:"id,omitempty"`
	Name     string       `json:"name"`
	Username string       `json:"username,omitempty"`
	Email    string       `json:"email"`
	Phone    string       `json:"phone,omitempty"`
	Website  string       `json:"website,omitempty"`
	Company  *companyBody `json:"company,omitempty"`

	// Form-shaped clients send these instead of name/company.
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Department string `json:"department,omitempty"`
}

func (b userBody) record() Record {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		name = strings.TrimSpace(b.FirstName + " " + b.LastName)
	}
	company := ""
	if b.Company != nil {
		company = strings.TrimSpace(b.Company.Name)
	}
	if company == "" {
		company = strings.TrimSpace(b.Department)
	}
	return Record{
		Name:        name,
		Username:    strings.TrimSpace(b.Username),
		Email:       strings.TrimSpace(b.Email),
		Phone:       strings.TrimSpace(b.Phone),
		Website:     strings.TrimSpace(b.Website),
		CompanyName: company,
		FirstName:   strings.TrimSpace(b.FirstName),
		LastName:    strings.TrimSpace(b.LastName),
	}
}

func bodyFrom(r Record) userBody {
	out := userBody{
		ID:       r.ID,
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Website:  r.Website,
	}
	// Echo the submitted split so multi-word first names survive a reload.
	out.FirstName, out.LastName = r.FirstName, r.LastName
	if r.CompanyName != "" {
		out.Company = &companyBody{Name: r.CompanyName}
	}
	return out
}
