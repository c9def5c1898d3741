package activity

import "time"

// ActivityLog is append-only; rows are never updated or deleted.
type ActivityLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Action    string    `gorm:"column:action;not null"`
	Details   string    `gorm:"column:details"`
	Category  string    `gorm:"column:category;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;default:now();index"`
}
