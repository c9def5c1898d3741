package timesheet

import "time"

// Pointage is a single clock event, one row per in or out.
type Pointage struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Kind      string    `gorm:"column:kind;not null"`
	At        time.Time `gorm:"column:at;not null;index"`
	Late      bool      `gorm:"column:late;default:false"`
	Note      string    `gorm:"column:note"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

type BreakEntry struct {
	ID        int64      `gorm:"primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	StartedAt time.Time  `gorm:"column:started_at;not null"`
	EndedAt   *time.Time `gorm:"column:ended_at"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
}
