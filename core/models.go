package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Cell identifies one (project, activity) slot of the classification catalog.
// Both indices and the fusion step are keyed on it.
type Cell struct {
	Project  string
	Activity string
}

// labelSeparator joins the project and activity halves of a persisted label.
const labelSeparator = ": "

// Label renders the cell in the persisted "project: activity" form used by
// the vector index sidecar.
func (c Cell) Label() string {
	return c.Project + labelSeparator + c.Activity
}

// ParseLabel parses a persisted "project: activity" label back into a Cell.
func ParseLabel(label string) (Cell, error) {
	project, activity, found := strings.Cut(label, labelSeparator)
	if !found || project == "" {
		return Cell{}, ErrMalformedLabel
	}
	return Cell{Project: project, Activity: activity}, nil
}

// Less orders cells lexicographically by project, then activity.
// Used as the deterministic tie-break in score fusion.
func (c Cell) Less(other Cell) bool {
	if c.Project != other.Project {
		return c.Project < other.Project
	}
	return c.Activity < other.Activity
}

// Document is a historical timesheet entry used to build the indices.
// It is not retained after indexing.
//
// Both ProjectDescription and ProjectDefinition are surfaced explicitly;
// which source column feeds which field is the ingestion collaborator's
// decision. The indices key on (ProjectDescription, ActivityDescription)
// and treat ProjectDefinition plus Comment as the free text.
type Document struct {
	ProjectDescription  string `json:"project_description"`
	ProjectDefinition   string `json:"project_definition"`
	ActivityDescription string `json:"activity_description"`
	Comment             string `json:"comment"`
}

// Cell returns the catalog cell this document belongs to.
func (d Document) Cell() Cell {
	return Cell{Project: d.ProjectDescription, Activity: d.ActivityDescription}
}

// FreeText returns the unstructured portion of the document.
func (d Document) FreeText() string {
	if d.ProjectDefinition == "" {
		return d.Comment
	}
	if d.Comment == "" {
		return d.ProjectDefinition
	}
	return d.ProjectDefinition + " " + d.Comment
}

// Query is an incoming event reduced to the two text fields the indices consume.
type Query struct {
	Title string
	Body  string
}

// Text returns the concatenated query text used for embedding.
func (q Query) Text() string {
	return strings.TrimSpace(q.Title + " " + q.Body)
}

// Event is a calendar occurrence to classify. The body is already scrubbed
// and the recurrence expanded into concrete occurrence dates by the
// ingestion collaborator.
type Event struct {
	Id          string      `json:"id"`
	ICalUID     string      `json:"ical_uid"`
	Subject     string      `json:"subject"`
	Body        string      `json:"body"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Occurrences []time.Time `json:"occurrences"`
}

// Query builds the classification query from the event's text fields.
func (e Event) Query() Query {
	return Query{Title: e.Subject, Body: e.Body}
}

// DurationHours returns the event length in hours.
func (e Event) DurationHours() float64 {
	return e.End.Sub(e.Start).Hours()
}

// MatchCandidate is one joined (project, activity) row considered during
// score fusion. Produced transiently per query; never persisted.
type MatchCandidate struct {
	Cell         Cell
	KeywordScore float64
	VectorScore  float64
	FusedScore   float64
}

// Prediction is the winning candidate attached to an event.
// The JSON field names are the downstream consumer contract.
type Prediction struct {
	ProjectDescription string  `json:"project_description"`
	ProjectActivity    string  `json:"project_activity"`
	KeywordScore       float64 `json:"pred_confidence_score_keyword"`
	VectorScore        float64 `json:"pred_confidence_score_context"`
	FusedScore         float64 `json:"pred_confidence_score"`
}

// ClassifiedEvent pairs an event with its classification outcome.
// An empty join or an event-scoped collaborator failure leaves Prediction
// nil and records the reason in Err; exactly one of the two is set.
type ClassifiedEvent struct {
	Event      Event       `json:"event"`
	Prediction *Prediction `json:"prediction,omitempty"`
	Err        error       `json:"-"`
}

// Classified reports whether the event received a prediction.
func (c ClassifiedEvent) Classified() bool {
	return c.Prediction != nil
}

// Result is the persisted form of a successfully classified event.
type Result struct {
	Id         ID         `json:"id"`
	Event      Event      `json:"event"`
	Prediction Prediction `json:"prediction"`
	InsertedAt time.Time  `json:"inserted_at"`
}

// ResultID derives the stable storage ID for an event's result from its
// calendar identity and start time.
func ResultID(event Event) ID {
	return IDFromContent(event.ICalUID + "|" + event.Start.UTC().Format(time.RFC3339))
}
