package models

// Role names as seeded at bootstrap.
const (
	RoleNameUser          = "User"
	RoleNameModerator     = "Moderator"
	RoleNameAdministrator = "Administrator"
)

type Role struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Default     bool       `gorm:"default:false;index" json:"default"`
	Permissions Permission `gorm:"not null" json:"permissions"`
}

// RoleSeed describes the three built-in roles. Seeding upserts by name so
// bootstrap stays idempotent.
type RoleSeed struct {
	Name        string
	Permissions Permission
	Default     bool
}

func RoleSeeds() []RoleSeed {
	return []RoleSeed{
		{Name: RoleNameUser, Permissions: UserPermissions, Default: true},
		{Name: RoleNameModerator, Permissions: ModeratorPermissions, Default: false},
		{Name: RoleNameAdministrator, Permissions: AdministratorPermissions, Default: false},
	}
}
