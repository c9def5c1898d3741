package absence

import "time"

type Absence struct {
	ID        int64      `gorm:"primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	Type      string     `gorm:"column:type;not null"`
	StartDate time.Time  `gorm:"column:start_date;not null"`
	EndDate   time.Time  `gorm:"column:end_date;not null"`
	Reason    string     `gorm:"column:reason"`
	Status    string     `gorm:"column:status;not null;default:'pending'"`
	DecidedBy *int64     `gorm:"column:decided_by"`
	DecidedAt *time.Time `gorm:"column:decided_at"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:now()"`
}
