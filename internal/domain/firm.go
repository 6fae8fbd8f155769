package domain

import "time"

type Firm struct {
	ID             string
	Name           string
	Jurisdiction   string
	Timezone       string
	Currency       string
	PracticeAreas  []string
	EmployeeCounts map[string]int
	CreatedAt      time.Time
}

type Role string

const (
	RoleOwner     Role = "Owner"
	RoleLawyer    Role = "Lawyer"
	RoleParalegal Role = "Paralegal"
	RoleAssistant Role = "Assistant"
	RoleAdmin     Role = "Admin"
)

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	IsActive  bool
	FirmID    string
	CreatedAt time.Time
}

// Principal is the authenticated identity attached to every request by the
// authentication collaborator. All repository access is scoped to FirmID.
type Principal struct {
	Subject string
	FirmID  string
	Roles   []string
}

func (p Principal) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == string(want) {
				return true
			}
		}
	}
	return false
}
