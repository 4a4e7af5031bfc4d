package models

import "time"

// ClockSession is one contiguous attendance period for one user, bounded by
// clock-in and clock-out. A user may accumulate several closed sessions on the
// same work date; at most one session per user is ever open (EndTime nil),
// which the store enforces with a partial unique index.
type ClockSession struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"not null;index"`
	StartTime    time.Time  `gorm:"not null"`
	EndTime      *time.Time
	WorkDate     time.Time `gorm:"type:date;not null;index"`
	Hours        float64   `gorm:"not null;default:0"`
	BreakMinutes int       `gorm:"not null;default:0"`
	Manual       bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (session ClockSession) Open() bool {
	return session.EndTime == nil
}
