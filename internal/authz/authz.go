// Package authz decides whether an actor may perform an action on a target.
// It is pure: callers load the target and pass what they found.
package authz

import (
	"fmt"

	"bookshelf/internal/apperr"
)

// Anonymous is the actor id of a request without a valid token.
const Anonymous = 0

type Action int

const (
	Read Action = iota
	CreateBook
	UpdateBook
	DeleteBook
	CreateTag
	DeleteTag
	DeleteUser
	ChangePassword
)

var actionNames = map[Action]string{
	Read:           "read",
	CreateBook:     "create book",
	UpdateBook:     "update book",
	DeleteBook:     "delete book",
	CreateTag:      "create tag",
	DeleteTag:      "delete tag",
	DeleteUser:     "delete user",
	ChangePassword: "change password",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Kind names the entity type in denial messages.
type Kind string

const (
	KindBook Kind = "book"
	KindTag  Kind = "tag"
	KindUser Kind = "user"
)

// Target describes the entity an action applies to. For user targets
// OwnerID is the user's own id.
type Target struct {
	Kind    Kind
	Exists  bool
	OwnerID int
}

// Missing is a target that could not be loaded.
func Missing(kind Kind) Target { return Target{Kind: kind} }

// Owned is a loaded target owned by ownerID.
func Owned(kind Kind, ownerID int) Target {
	return Target{Kind: kind, Exists: true, OwnerID: ownerID}
}

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotFound        Reason = "not found"
	ReasonForbidden       Reason = "forbidden"
)

type Decision struct {
	Allowed bool
	Reason  Reason
	Action  Action
	Target  Target
}

func allow(a Action, t Target) Decision {
	return Decision{Allowed: true, Action: a, Target: t}
}

func deny(a Action, t Target, r Reason) Decision {
	return Decision{Action: a, Target: t, Reason: r}
}

// Authorize evaluates the rules for action. A missing target is reported
// before ownership so that absent rows never surface as Forbidden.
func Authorize(actor int, action Action, target Target) Decision {
	if action == Read {
		return allow(action, target)
	}
	if actor == Anonymous {
		return deny(action, target, ReasonUnauthenticated)
	}

	switch action {
	case CreateBook, CreateTag:
		return allow(action, target)
	case UpdateBook, DeleteBook, DeleteTag, DeleteUser, ChangePassword:
		if !target.Exists {
			return deny(action, target, ReasonNotFound)
		}
		if actor != target.OwnerID {
			return deny(action, target, ReasonForbidden)
		}
		return allow(action, target)
	default:
		return deny(action, target, ReasonForbidden)
	}
}

// Err converts a denial into the matching application error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	kind := d.Target.Kind
	if kind == "" {
		kind = "resource"
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return apperr.ErrUnauthenticated
	case ReasonNotFound:
		return apperr.NotFound(fmt.Sprintf("%s not found", kind))
	default:
		return apperr.Forbidden(fmt.Sprintf("not allowed to %s", d.Action))
	}
}
