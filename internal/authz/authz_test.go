package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ratehub/internal/models"
)

var (
	anonymous = Actor{}
	regular   = Actor{ID: "user-1", Role: models.RoleUser, Active: true}
	other     = Actor{ID: "user-2", Role: models.RoleUser, Active: true}
	moderator = Actor{ID: "mod-1", Role: models.RoleModerator, Active: true}
	admin     = Actor{ID: "admin-1", Role: models.RoleAdmin, Active: true}
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		verb     Verb
		resource Resource
		ownerID  string
		allowed  bool
		denial   Denial
	}{
		// rule 1: reads on catalog and feedback are open
		{"anonymous reads titles", anonymous, Read, ResourceTitle, "", true, DenialNone},
		{"anonymous reads reviews", anonymous, Read, ResourceReview, "user-1", true, DenialNone},
		{"anonymous reads comments", anonymous, Read, ResourceComment, "user-1", true, DenialNone},
		{"anonymous reads categories", anonymous, Read, ResourceCategory, "", true, DenialNone},
		{"user reads genres", regular, Read, ResourceGenre, "", true, DenialNone},

		// rule 5: anonymous writes stop before any role check
		{"anonymous writes review", anonymous, Write, ResourceReview, "", false, DenialUnauthenticated},
		{"anonymous destroys title", anonymous, Destroy, ResourceTitle, "", false, DenialUnauthenticated},
		{"anonymous writes category", anonymous, Write, ResourceCategory, "", false, DenialUnauthenticated},

		// rule 2: catalog mutations are admin-only
		{"admin writes category", admin, Write, ResourceCategory, "", true, DenialNone},
		{"admin destroys genre", admin, Destroy, ResourceGenre, "", true, DenialNone},
		{"admin writes title", admin, Write, ResourceTitle, "", true, DenialNone},
		{"moderator writes title", moderator, Write, ResourceTitle, "", false, DenialForbidden},
		{"user destroys category", regular, Destroy, ResourceCategory, "", false, DenialForbidden},

		// rule 3: feedback mutations need ownership or a moderation role
		{"author updates own review", regular, Write, ResourceReview, "user-1", true, DenialNone},
		{"author deletes own comment", regular, Destroy, ResourceComment, "user-1", true, DenialNone},
		{"non-owner updates review", other, Write, ResourceReview, "user-1", false, DenialForbidden},
		{"non-owner deletes comment", other, Destroy, ResourceComment, "user-1", false, DenialForbidden},
		{"moderator updates any review", moderator, Write, ResourceReview, "user-1", true, DenialNone},
		{"admin deletes any comment", admin, Destroy, ResourceComment, "user-1", true, DenialNone},

		// rule 4: user resources
		{"user reads own profile", regular, Read, ResourceUser, "user-1", true, DenialNone},
		{"user updates own profile", regular, Write, ResourceUser, "user-1", true, DenialNone},
		{"user reads another profile", regular, Read, ResourceUser, "user-2", false, DenialForbidden},
		{"user lists users", regular, Read, ResourceUser, "", false, DenialForbidden},
		{"user deletes own account", regular, Destroy, ResourceUser, "user-1", false, DenialForbidden},
		{"moderator lists users", moderator, Read, ResourceUser, "", false, DenialForbidden},
		{"admin lists users", admin, Read, ResourceUser, "", true, DenialNone},
		{"admin creates user", admin, Write, ResourceUser, "", true, DenialNone},
		{"admin deletes user", admin, Destroy, ResourceUser, "user-1", true, DenialNone},
		{"anonymous reads profile", anonymous, Read, ResourceUser, "user-1", false, DenialUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.actor, tt.verb, tt.resource, tt.ownerID)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.denial, decision.Denial)
			if !decision.Allowed {
				assert.NotEmpty(t, decision.Reason)
			}
		})
	}
}

func TestSelfEditableFieldsExcludesRole(t *testing.T) {
	assert.False(t, SelfEditableFields["role"])
	assert.True(t, SelfEditableFields["bio"])
	assert.True(t, SelfEditableFields["username"])
}

func TestCanAssignRole(t *testing.T) {
	assert.True(t, CanAssignRole(admin))
	assert.False(t, CanAssignRole(moderator))
	assert.False(t, CanAssignRole(regular))
	assert.False(t, CanAssignRole(anonymous))
}
