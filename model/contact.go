package model

import "strings"

type Contact struct {
	URL              string `json:"url,omitempty"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	OrganisationName string `json:"organisation_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Status           string `json:"status,omitempty"`
	ActiveProjects   int    `json:"active_projects_count,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

func (c Contact) Identity() string { return c.URL }

func (c Contact) Ref(string) string { return "" }

// DisplayName prefers the organisation name and falls back to the person.
func (c Contact) DisplayName() string {
	if c.OrganisationName != "" {
		return c.OrganisationName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type User struct {
	URL       string `json:"url,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (u User) Identity() string { return u.URL }

func (u User) Ref(string) string { return "" }

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
