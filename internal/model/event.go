package model

import "time"

// EventType classifies a scheduled market event.
type EventType string

const (
	EventFed          EventType = "fed"
	EventEconomic     EventType = "economic"
	EventEarnings     EventType = "earnings"
	EventGeopolitical EventType = "geopolitical"
	EventOther        EventType = "other"
)

// EventImpact is the expected market impact of an event.
type EventImpact string

const (
	ImpactHigh   EventImpact = "high"
	ImpactMedium EventImpact = "medium"
	ImpactLow    EventImpact = "low"
)

// ScheduledEvent is an upcoming event that could move holdings.
type ScheduledEvent struct {
	Name            string
	Type            EventType
	Date            time.Time
	Impact          EventImpact
	Description     string
	AffectedSectors []string
	AffectedTickers []string
}
