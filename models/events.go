package models

import "time"

// EventAction - what happened to a directory entity
type EventAction string

// event actions
const (
	EventCreate  EventAction = "create"
	EventUpdate  EventAction = "update"
	EventDelete  EventAction = "delete"
	EventRefresh EventAction = "refresh"
)

// EntityType - kind of directory entity an event refers to
type EntityType string

// entity types
const (
	UserEntity  EntityType = "user"
	GroupEntity EntityType = "group"
)

// DirectoryEvent - change notification emitted after a successful mutation
type DirectoryEvent struct {
	Entity    EntityType  `json:"entity"`
	Action    EventAction `json:"action"`
	ID        string      `json:"id,omitempty"`
	Count     int         `json:"count,omitempty"`
	TimeStamp time.Time   `json:"timestamp"`
}

// Topic - broker topic the event is published on
func (e DirectoryEvent) Topic() string {
	return "scim/" + string(e.Entity) + "/" + string(e.Action)
}
