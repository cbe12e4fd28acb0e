package resource

import (
	"net/url"
	"strconv"

	"sales-admin/internal/api"
	"sales-admin/internal/models"
)

// UserFilter narrows a users fetch. Zero-valued fields are not sent.
type UserFilter struct {
	Name        string
	AccessLevel int
}

// Query implements Filter.
func (f UserFilter) Query() url.Values {
	v := url.Values{}
	if f.Name != "" {
		v.Set("nome", f.Name)
	}
	if f.AccessLevel > 0 {
		v.Set("nivelAcesso", strconv.Itoa(f.AccessLevel))
	}
	return v
}

// NewUsersQuery creates the query engine for user accounts.
func NewUsersQuery(client *api.Client) *Query[models.User] {
	return NewQuery[models.User](client, "/users/getAllUsers")
}

// NewUsersMutator creates the mutation engine for user accounts.
func NewUsersMutator(client *api.Client) *Mutator[models.UserInput, models.UserInput] {
	return NewMutator[models.UserInput, models.UserInput](
		client,
		"/users/createUser",
		"/users/updateUser",
		"/users/deleteUser",
	)
}
