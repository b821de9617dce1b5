package config

// Task kinds mirror the portal search views the scraper engine knows how to
// walk.
const (
	TaskKindBills  = "bills"
	TaskKindPeople = "people"
	TaskKindEvents = "events"
)

type Task struct {
	Jurisdiction string `json:"jurisdiction"`
	Kind         string `json:"kind"`
	URL          string `json:"url"`

	Run *Run `json:"run"`
}
