package models

// Permission is a single capability bit composed into a role's bitmask.
type Permission int

const (
	PermFollow         Permission = 0x001
	PermComment        Permission = 0x002
	PermDeleteComment  Permission = 0x004
	PermWriteArticles  Permission = 0x008
	PermDeleteArticles Permission = 0x010
	PermModerate       Permission = 0x020
	PermAdminister     Permission = 0x800
)

// AdministratorPermissions is the full mask granted to the Administrator
// role. Kept as the historical literal, not the union of named bits.
const AdministratorPermissions Permission = 0xfff

// UserPermissions is everything a regular member can do.
const UserPermissions = PermFollow |
	PermComment |
	PermDeleteComment |
	PermWriteArticles |
	PermDeleteArticles

// ModeratorPermissions adds content moderation on top of a regular member.
const ModeratorPermissions = UserPermissions | PermModerate
