package directory

// Company is the nested employer object of a remote user.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase,omitempty"`
	BS          string `json:"bs,omitempty"`
}

// User is a record as the Remote Directory returns it. FirstName, LastName and
// Department are only set when the server echoes a submitted form.
type User struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Website  string   `json:"website,omitempty"`
	Company  *Company `json:"company,omitempty"`

	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Department string `json:"department,omitempty"`
}

// UserInput is the body of create and update requests.
type UserInput struct {
	ID         int64    `json:"id,omitempty"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Name       string   `json:"name"`
	Company    *Company `json:"company,omitempty"`
}
