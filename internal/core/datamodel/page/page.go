package page

import "time"

// Page mirrors the static registry in internal/authz; the seed command
// keeps these rows in sync with the in-code definitions.
type Page struct {
	ID           int64     `gorm:"primaryKey"`
	Code         string    `gorm:"column:code;uniqueIndex;not null"`
	Path         string    `gorm:"column:path;not null"`
	Title        string    `gorm:"column:title"`
	AllowedRoles string    `gorm:"column:allowed_roles;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

type PagePermission struct {
	ID           int64 `gorm:"primaryKey"`
	PageID       int64 `gorm:"column:page_id;not null;uniqueIndex:idx_page_permission"`
	PermissionID int64 `gorm:"column:permission_id;not null;uniqueIndex:idx_page_permission"`
}
