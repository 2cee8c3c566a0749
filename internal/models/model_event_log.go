package models

import (
	"time"

	"gorm.io/datatypes"
)

// EventLogRecord is the durable mirror of the KV event log, written
// best-effort so provisioning failures can still be diagnosed after the KV
// entries expire.
type EventLogRecord struct {
	ID         string         `gorm:"column:id;type:uuid;primary_key" json:"id"`
	EventType  string         `gorm:"column:event_type;type:varchar(128);not null" json:"event_type"`
	CustomerID *string        `gorm:"column:customer_id;type:varchar(64)" json:"customer_id"`
	TraceID    string         `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	EventTime  time.Time      `gorm:"column:event_time" json:"event_time"`
	Data       datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (EventLogRecord) TableName() string { return "event_log" }
