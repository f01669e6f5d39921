package domain

import (
	"slices"
	"strings"
	"time"
)

type Project struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// IsMember reports whether userID is listed in the project's members.
func (p Project) IsMember(userID string) bool {
	return userID != "" && slices.Contains(p.Members, userID)
}

type ProjectPatch struct {
	Name    *string   `json:"name,omitempty"`
	Company *string   `json:"company,omitempty"`
	Members *[]string `json:"members,omitempty"`
}

func (p *ProjectPatch) Normalize() {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		p.Name = &n
	}
	if p.Members != nil {
		m := dedupe(*p.Members)
		p.Members = &m
	}
}

func (p ProjectPatch) ValidateCreate() error {
	if p.Name == nil || *p.Name == "" {
		return required("name")
	}
	return p.ValidateUpdate()
}

func (p ProjectPatch) ValidateUpdate() error {
	if p.Name != nil && *p.Name == "" {
		return required("name")
	}
	if p.Members != nil && slices.Contains(*p.Members, "") {
		return &ValidationError{Field: "members", Message: "contains an empty id"}
	}
	return nil
}

// WithMember returns a copy of the patch whose member list also holds userID.
func (p ProjectPatch) WithMember(userID string) ProjectPatch {
	var members []string
	if p.Members != nil {
		members = slices.Clone(*p.Members)
	}
	if !slices.Contains(members, userID) {
		members = append([]string{userID}, members...)
	}
	p.Members = &members
	return p
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
