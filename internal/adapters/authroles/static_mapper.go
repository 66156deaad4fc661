// Package authroles maps identity provider groups onto marketplace roles.
package authroles

import (
	"strings"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
)

// StaticRoleMapper maps groups by exact, case-insensitive membership.
// Admin wins over employer, employer over jobseeker.
type StaticRoleMapper struct {
	AdminGroup     string
	EmployerGroup  string
	JobseekerGroup string
}

// Configured reports whether any group is mapped.
func (m StaticRoleMapper) Configured() bool {
	return m.AdminGroup != "" || m.EmployerGroup != "" || m.JobseekerGroup != ""
}

// Map returns the highest role granted by groups.
func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	ordered := []struct {
		group string
		role  domainauth.Role
	}{
		{m.AdminGroup, domainauth.RoleAdmin},
		{m.EmployerGroup, domainauth.RoleEmployer},
		{m.JobseekerGroup, domainauth.RoleJobseeker},
	}
	for _, candidate := range ordered {
		want := strings.TrimSpace(candidate.group)
		if want == "" {
			continue
		}
		for _, g := range groups {
			if strings.EqualFold(strings.TrimSpace(g), want) {
				return candidate.role, true
			}
		}
	}
	return "", false
}
