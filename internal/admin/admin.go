package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const AdminKey ContextKey = "admin"

type Role string

const (
	RoleMainAdmin Role = "main_admin"
	RoleUrusetia  Role = "urusetia"
	RolePersonal  Role = "personal"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMainAdmin, RoleUrusetia, RolePersonal:
		return true
	}
	return false
}

func (r Role) Label() string {
	switch r {
	case RoleMainAdmin:
		return "Pentadbir Utama"
	case RoleUrusetia:
		return "Urusetia"
	case RolePersonal:
		return "Personal"
	}
	return string(r)
}

type Permission string

const (
	CanLockSystem      Permission = "canLockSystem"
	CanUnlockSystem    Permission = "canUnlockSystem"
	CanResetTournament Permission = "canResetTournament"
	CanModifySettings  Permission = "canModifySettings"
	CanManagePlayers   Permission = "canManagePlayers"
	CanManageMatches   Permission = "canManageMatches"
	CanViewReports     Permission = "canViewReports"
	CanExportData      Permission = "canExportData"
)

var rolePermissions = map[Role][]Permission{
	RoleMainAdmin: {
		CanLockSystem, CanUnlockSystem, CanResetTournament, CanModifySettings,
		CanManagePlayers, CanManageMatches, CanViewReports, CanExportData,
	},
	RoleUrusetia: {CanManagePlayers, CanManageMatches, CanViewReports, CanExportData},
	RolePersonal: {CanViewReports},
}

func (r Role) Permissions() []Permission {
	return append([]Permission{}, rolePermissions[r]...)
}

func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Admin is anyone allowed into the control panel. Seeded accounts log in with
// a password; OAuth accounts carry a provider instead.
type Admin struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Role         Role       `db:"role" json:"role"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	Provider     *string    `db:"provider" json:"provider,omitempty"`
	ProviderID   *string    `db:"provider_id" json:"-"`
	AvatarURL    *string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

func (a *Admin) Can(p Permission) bool {
	return a != nil && a.Role.Can(p)
}

func WithContext(ctx context.Context, a *Admin) context.Context {
	return context.WithValue(ctx, AdminKey, a)
}

func FromContext(ctx context.Context) *Admin {
	a, ok := ctx.Value(AdminKey).(*Admin)
	if !ok {
		return nil
	}
	return a
}

// Actor names whoever is behind ctx for the audit log.
func Actor(ctx context.Context) string {
	if a := FromContext(ctx); a != nil {
		return a.Username
	}
	return "system"
}
