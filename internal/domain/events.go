package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventMenuLoaded          EventType = "MenuLoaded"
	EventMenuLoadFailed      EventType = "MenuLoadFailed"
	EventPageChanged         EventType = "PageChanged"
	EventRefreshPhaseChanged EventType = "RefreshPhaseChanged"
	EventReloadRequested     EventType = "ReloadRequested"
	EventOrientationChanged  EventType = "OrientationChanged"
	EventError               EventType = "Error"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// MenuLoadedEvent is emitted when a menu was loaded and a session built
type MenuLoadedEvent struct {
	Source string
	Pages  int
}

func (e MenuLoadedEvent) Type() EventType { return EventMenuLoaded }

// MenuLoadFailedEvent is emitted when loading or building the session failed
type MenuLoadFailedEvent struct {
	Source string
	Err    error
}

func (e MenuLoadFailedEvent) Type() EventType { return EventMenuLoadFailed }

// PageChangedEvent is emitted after the navigation index changed
type PageChangedEvent struct {
	OldIndex int
	NewIndex int
	Count    int
}

func (e PageChangedEvent) Type() EventType { return EventPageChanged }

// RefreshPhaseChangedEvent is emitted when the pull-to-refresh phase changes
type RefreshPhaseChangedEvent struct {
	From string
	To   string
}

func (e RefreshPhaseChangedEvent) Type() EventType { return EventRefreshPhaseChanged }

// ReloadRequestedEvent asks the app to rebuild the whole session
type ReloadRequestedEvent struct {
	Reason string // "pull" or "key"
}

func (e ReloadRequestedEvent) Type() EventType { return EventReloadRequested }

// OrientationChangedEvent is emitted when the page-turn engine reflows
type OrientationChangedEvent struct {
	Orientation string
}

func (e OrientationChangedEvent) Type() EventType { return EventOrientationChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
