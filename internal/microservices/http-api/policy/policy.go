// Package policy decides whether an actor may perform an action on a
// resource. Every function here is pure: callers load the actor and the
// target first and act on the boolean.
//
// Reads of catalog and review content are open to everyone. Writes split
// into create, which only needs an authenticated actor for reviews and
// comments, and mutations of an existing object, which need ownership or an
// elevated role.
package policy

import (
	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/models"
)

// Actor is the caller of a request. The zero value is the anonymous actor.
type Actor struct {
	UserID        int64
	Role          models.Role
	IsSuperuser   bool
	Authenticated bool
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor { return Actor{} }

// ActorFor builds the actor for an authenticated user.
func ActorFor(u *models.User) Actor {
	return Actor{
		UserID:        u.ID,
		Role:          u.Role,
		IsSuperuser:   u.IsSuperuser,
		Authenticated: true,
	}
}

// IsElevated is true for admins and superusers. The superuser flag is checked
// explicitly, it is not implied by any role.
func (a Actor) IsElevated() bool {
	return a.Authenticated && (a.Role == models.RoleAdmin || a.IsSuperuser)
}

type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) IsRead() bool {
	return a == ActionList || a == ActionRetrieve
}

type Resource int

const (
	ResourceCategory Resource = iota
	ResourceGenre
	ResourceTitle
	ResourceReview
	ResourceComment
	// ResourceUser is account management of any user.
	ResourceUser
	// ResourceSelf is the caller's own account.
	ResourceSelf
)

// Target identifies what an action applies to. OwnerID is the author of an
// existing review or comment and is ignored for other resources.
type Target struct {
	Resource Resource
	OwnerID  int64
}

// On is shorthand for a target without an owner.
func On(r Resource) Target { return Target{Resource: r} }

// Owned is shorthand for an existing review or comment written by ownerID.
func Owned(r Resource, ownerID int64) Target {
	return Target{Resource: r, OwnerID: ownerID}
}

// CanPerform reports whether actor may perform action on target.
func CanPerform(actor Actor, action Action, target Target) bool {
	switch target.Resource {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		if action.IsRead() {
			return true
		}
		return actor.IsElevated()

	case ResourceReview, ResourceComment:
		if action.IsRead() {
			return true
		}
		if !actor.Authenticated {
			return false
		}
		if action == ActionCreate {
			return true
		}
		return actor.UserID == target.OwnerID || actor.Role.CanModerate()

	case ResourceUser:
		return actor.IsElevated()

	case ResourceSelf:
		if !actor.Authenticated {
			return false
		}
		return action == ActionRetrieve || action == ActionUpdate
	}
	return false
}

// Authorize is CanPerform returning the error to report on denial:
// authentication for the anonymous actor, authorization otherwise.
func Authorize(actor Actor, action Action, target Target) error {
	if CanPerform(actor, action, target) {
		return nil
	}
	if !actor.Authenticated {
		return apperr.Authentication("authentication credentials were not provided")
	}
	return apperr.Authorization("you do not have permission to perform this action")
}
