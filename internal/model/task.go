package model

// Task is the surrounding application's task record: the external collection
// the schedule engine synchronizes with. Field names follow the dashboard's
// wire shape ("text" rather than "title"); internal/schedule maps this to and
// from Assignment field by field.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Notes     string `json:"notes,omitempty"`
	Completed bool   `json:"completed"`

	Date      string  `json:"date"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`

	AssigneeID       *string `json:"assigneeId,omitempty"`
	CrewID           *string `json:"crewId,omitempty"`
	LocationID       *string `json:"locationId,omitempty"`
	ClientID         *string `json:"clientId,omitempty"`
	ClientLocationID *string `json:"clientLocationId,omitempty"`
}
