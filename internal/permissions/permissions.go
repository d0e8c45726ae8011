// Package permissions computes a user's effective capability bitmask in a
// channel from server roles and channel overwrites.
package permissions

import (
	"strconv"

	"github.com/m96-chan/rivet/internal/model"
)

// ViewChannel is the bit that makes a channel visible.
const ViewChannel uint64 = 1 << 10

// Parse reads a bitmask sent as a decimal string, falling back to
// hexadecimal. Anything unparseable is zero.
func Parse(s string) uint64 {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseUint(s, 16, 64); err == nil {
		return v
	}
	return 0
}

// Resolve returns the effective permissions of ctx's user in ch.
//
// Order: default role, OR of the user's other roles, default-role
// overwrite, the union of the user's role overwrites, then the member
// overwrite. Each overwrite step clears deny bits before setting allow bits.
func Resolve(ch model.Channel, ctx model.PermissionContext) uint64 {
	perms := rolePermissions(ctx, ctx.DefaultRoleID)

	for _, id := range ctx.RoleIDs {
		if id == ctx.DefaultRoleID {
			continue
		}
		perms |= rolePermissions(ctx, id)
	}

	if ow, ok := findOverwrite(ch, model.OverwriteRole, ctx.DefaultRoleID); ok {
		perms = apply(perms, Parse(ow.Deny), Parse(ow.Allow))
	}

	var deny, allow uint64
	for _, id := range ctx.RoleIDs {
		if id == ctx.DefaultRoleID {
			continue
		}
		if ow, ok := findOverwrite(ch, model.OverwriteRole, id); ok {
			deny |= Parse(ow.Deny)
			allow |= Parse(ow.Allow)
		}
	}
	perms = apply(perms, deny, allow)

	if ow, ok := findOverwrite(ch, model.OverwriteMember, ctx.UserID); ok {
		perms = apply(perms, Parse(ow.Deny), Parse(ow.Allow))
	}

	return perms
}

// IsVisible reports whether ch may be listed for the user. Categories are
// containers and never visible.
func IsVisible(ch model.Channel, ctx model.PermissionContext) bool {
	if ch.Kind == model.KindCategory {
		return false
	}
	return Resolve(ch, ctx)&ViewChannel != 0
}

func apply(perms, deny, allow uint64) uint64 {
	return perms&^deny | allow
}

// rolePermissions returns the bitmask of role id, or zero when the server
// has no such role.
func rolePermissions(ctx model.PermissionContext, id string) uint64 {
	for _, r := range ctx.Roles {
		if r.ID == id {
			return Parse(r.Permissions)
		}
	}
	return 0
}

func findOverwrite(ch model.Channel, kind model.OverwriteKind, id string) (model.Overwrite, bool) {
	if id == "" {
		return model.Overwrite{}, false
	}
	for _, ow := range ch.Overwrites {
		if ow.SubjectKind == kind && ow.SubjectID == id {
			return ow, true
		}
	}
	return model.Overwrite{}, false
}
