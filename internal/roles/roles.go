// Package roles answers "may this user do that" from configured id lists.
package roles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Role is a capability granted to a user
type Role string

const (
	Member          Role = "member"
	ElectionAdmin   Role = "election_admin"
	TaskmasterAdmin Role = "taskmaster_admin"
)

// All lists every known role
var All = []Role{Member, ElectionAdmin, TaskmasterAdmin}

// Checker looks up whether a user holds a role
type Checker interface {
	HasRole(userID int, role Role) bool
}

// Static is a Checker backed by fixed id lists, typically from configuration
type Static struct {
	grants map[Role]map[int]bool
}

// NewStatic builds a Static checker from role -> user ids
func NewStatic(lists map[Role][]int) *Static {
	s := &Static{grants: make(map[Role]map[int]bool, len(lists))}
	for role, ids := range lists {
		set := make(map[int]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		s.grants[role] = set
	}
	return s
}

func (s *Static) HasRole(userID int, role Role) bool {
	return s.grants[role][userID]
}

var _ Checker = (*Static)(nil)

// ParseIDList parses a comma-separated list of user ids. Blank entries are
// ignored.
func ParseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Set is a set of roles
type Set map[Role]bool

// Principal is an authenticated user and the roles they held at login
type Principal struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Roles Set    `json:"-"`
}

// Has reports whether the principal holds role
func (p Principal) Has(role Role) bool {
	return p.Roles[role]
}

// RoleNames returns the principal's roles sorted by name
func (p Principal) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for role, ok := range p.Roles {
		if ok {
			names = append(names, string(role))
		}
	}
	sort.Strings(names)
	return names
}

// Resolve builds a Principal by asking checker about every known role
func Resolve(checker Checker, id int, name string) Principal {
	p := Principal{ID: id, Name: name, Roles: make(Set)}
	for _, role := range All {
		if checker.HasRole(id, role) {
			p.Roles[role] = true
		}
	}
	return p
}
