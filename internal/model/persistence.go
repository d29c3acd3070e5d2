package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Board is the persisted board row.
type Board struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	OwnerID   string    `gorm:"type:varchar(64);not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Snapshots []BoardSnapshot `gorm:"foreignKey:BoardID" json:"snapshots,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}

// BoardSnapshot is a full-board object dump, written on checkpoint. The
// latest version per board is the authoritative restore point.
type BoardSnapshot struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_board_version" json:"board_id"`
	Version   int64          `gorm:"not null;index:idx_board_version" json:"version"`
	Objects   datatypes.JSON `gorm:"not null" json:"objects"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"board,omitempty"`
}

func (BoardSnapshot) TableName() string {
	return "board_snapshots"
}
