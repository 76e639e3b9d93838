// Package policy holds the authorization rules as a pure decision function.
// It never touches storage; callers load whatever the decision needs first.
package policy

import "tracker/internal/domain/entity"

// Action is a kind of operation a user attempts on a resource.
type Action string

// The actions the policy distinguishes.
const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is what the action targets.
type Resource string

// The resources the policy knows about.
const (
	ResourceTask    Resource = "task"
	ResourceProject Resource = "project"
	ResourceUser    Resource = "user"
	ResourceMessage Resource = "message"
)

// Effect is the outcome of a policy decision.
type Effect int

// Decision outcomes.
const (
	Deny Effect = iota
	Allow
)

// Reason explains a denial so callers can map it to a precise error.
type Reason string

// Denial reasons.
const (
	ReasonNone              Reason = ""
	ReasonInsufficientRole  Reason = "insufficient role"
	ReasonNotOwner          Reason = "not owner"
	ReasonFieldNotPermitted Reason = "field not permitted"
)

// Decision is the result of evaluating a request against the policy.
type Decision struct {
	Effect Effect
	Reason Reason
}

func allow() Decision {
	return Decision{Effect: Allow}
}

func deny(reason Reason) Decision {
	return Decision{Effect: Deny, Reason: reason}
}

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool {
	return d.Effect == Allow
}

// memberTaskFields are the only task fields a member may change on their own
// tasks. Everything else requires admin.
var memberTaskFields = map[string]struct{}{
	"status":  {},
	"comment": {},
}

// Request describes an attempted operation for evaluation.
type Request struct {
	// Actor is the authenticated user performing the action.
	Actor *entity.User
	// Action is what the actor is trying to do.
	Action Action
	// Resource is the kind of object targeted.
	Resource Resource
	// OwnerID is the owner of the targeted object, when ownership applies.
	OwnerID int64
	// Fields lists the fields being written on an update.
	Fields []string
}

// Decide evaluates a request and returns a decision. Rules, in order:
// reads are open to every authenticated user; admins may do anything;
// members may post chat messages and may update status and comment on
// their own tasks; everything else is denied.
func Decide(req Request) Decision {
	if req.Actor == nil {
		return deny(ReasonInsufficientRole)
	}

	if req.Action == ActionRead {
		return allow()
	}

	switch req.Actor.Role {
	case entity.RoleAdmin:
		return allow()
	case entity.RoleMember:
		return decideMember(req)
	default:
		// Guests and unknown roles get read-only access.
		return deny(ReasonInsufficientRole)
	}
}

func decideMember(req Request) Decision {
	if req.Resource == ResourceMessage && req.Action == ActionCreate {
		return allow()
	}

	if req.Resource == ResourceTask && req.Action == ActionUpdate {
		if req.OwnerID != req.Actor.ID {
			return deny(ReasonNotOwner)
		}
		for _, field := range req.Fields {
			if _, ok := memberTaskFields[field]; !ok {
				return deny(ReasonFieldNotPermitted)
			}
		}
		return allow()
	}

	return deny(ReasonInsufficientRole)
}
