// Package authz is the single authorization decision point. It is a pure
// package: no database, no HTTP, just a precedence-ordered rule table over
// (actor, verb, resource, owner). Handlers and services never hand-roll role
// checks; they ask this package and translate the decision.
package authz

import "ratehub/internal/models"

// Actor is the identity a decision is made for. The zero value is the
// anonymous actor.
type Actor struct {
	ID     string
	Role   string
	Active bool
}

// Anonymous reports whether the actor carries no authenticated identity.
func (a Actor) Anonymous() bool {
	return a.ID == ""
}

// Verb classes. Exact HTTP methods are a transport concern; the engine only
// distinguishes reads from mutations.
type Verb int

const (
	Read Verb = iota
	Write
	Destroy
)

// Resource classes the engine rules over.
type Resource int

const (
	ResourceCategory Resource = iota
	ResourceGenre
	ResourceTitle
	ResourceReview
	ResourceComment
	ResourceUser
)

// Denial distinguishes "who are you" from "you may not".
type Denial int

const (
	DenialNone Denial = iota
	DenialUnauthenticated
	DenialForbidden
)

type Decision struct {
	Allowed bool
	Denial  Denial
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func denyAnonymous() Decision {
	return Decision{Denial: DenialUnauthenticated, Reason: "authentication required"}
}

func denyForbidden(reason string) Decision {
	return Decision{Denial: DenialForbidden, Reason: reason}
}

func isCatalog(r Resource) bool {
	return r == ResourceCategory || r == ResourceGenre || r == ResourceTitle
}

func isFeedback(r Resource) bool {
	return r == ResourceReview || r == ResourceComment
}

// Authorize evaluates the rule table in precedence order; the first matching
// rule wins. ownerID is the resource author for feedback resources and the
// profile owner for user resources; it is ignored for catalog resources.
func Authorize(actor Actor, verb Verb, resource Resource, ownerID string) Decision {
	// 1. Reads on catalog and feedback are open to everyone.
	if verb == Read && (isCatalog(resource) || isFeedback(resource)) {
		return allow()
	}

	// User resources have their own ownership rules, including reads.
	if resource == ResourceUser {
		return authorizeUser(actor, verb, ownerID)
	}

	// 5. Everything below mutates; anonymous actors stop here.
	if actor.Anonymous() {
		return denyAnonymous()
	}

	// 2. Catalog mutations are admin-only.
	if isCatalog(resource) {
		if actor.Role == models.RoleAdmin {
			return allow()
		}
		return denyForbidden("catalog changes require the admin role")
	}

	// 3. Feedback mutations: author, moderator or admin.
	if isFeedback(resource) {
		if actor.ID == ownerID || actor.Role == models.RoleModerator || actor.Role == models.RoleAdmin {
			return allow()
		}
		return denyForbidden("only the author or a moderator may change this")
	}

	return denyForbidden("operation not permitted")
}

// authorizeUser implements rule 4: a user may always act on their own
// profile; listing, creating and deleting users is admin territory. Whether a
// self-update may touch the role field is decided by SelfEditableFields, not
// here, so an otherwise valid self-edit never fails on that field.
func authorizeUser(actor Actor, verb Verb, ownerID string) Decision {
	if actor.Anonymous() {
		return denyAnonymous()
	}
	if actor.Role == models.RoleAdmin {
		return allow()
	}
	if ownerID != "" && actor.ID == ownerID && verb != Destroy {
		return allow()
	}
	return denyForbidden("user administration requires the admin role")
}

// SelfEditableFields is the allow-list of profile fields a non-admin may
// change on their own account. Anything absent, the role field included, is
// silently dropped from a self-update payload rather than rejected.
var SelfEditableFields = map[string]bool{
	"username":   true,
	"email":      true,
	"first_name": true,
	"last_name":  true,
	"bio":        true,
}

// CanAssignRole reports whether the actor may set the role field at all.
func CanAssignRole(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}
