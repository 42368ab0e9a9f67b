package model

import "time"

// NodeSnapshot is one recorded slurmrestd /nodes payload.
type NodeSnapshot struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TakenAt   time.Time `gorm:"column:taken_at;not null;index" json:"taken_at"`
	NodeCount int       `gorm:"column:node_count;not null" json:"node_count"`
	Payload   []byte    `gorm:"column:payload;type:longblob;not null" json:"-"`
}

func (NodeSnapshot) TableName() string { return "node_snapshots" }

type NodeSnapshots []NodeSnapshot
