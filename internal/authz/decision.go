package authz

import (
	"github.com/spec-kit/project-service/internal/domain"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// Principal is the authenticated caller a decision is made for.
type Principal struct {
	UserID string
	Role   domain.Role
}

// Scope narrows a list operation to the subset the principal may see.
// A nil scope on an allowed decision means the full listing.
type Scope struct {
	// AssigneeID restricts tasks to those assigned to this user.
	AssigneeID string
	// ManagerID restricts users to the team led by this manager.
	ManagerID string
}

// Decision is the outcome of evaluating one action for one principal.
type Decision struct {
	Allowed bool
	Reason  string
	Scope   *Scope
}

// Err converts a denial into its Forbidden error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperrors.NewForbidden(d.Reason)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func allowScoped(scope Scope) Decision {
	return Decision{Allowed: true, Scope: &scope}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
