package service

// Actor is the authenticated user behind a mutation, as set by the auth
// middleware.
type Actor struct {
	ID    string
	Name  string
	Email string
}

func (a Actor) label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
