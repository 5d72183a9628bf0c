// internal/wizard/modal/modal.go
package modal

// Severity selects the modal icon and accent color.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Message is one modal payload. Title may be empty; State.Show fills in the
// default for the severity.
type Message struct {
	Title        string   `json:"title,omitempty"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity"`
	ScrollTarget string   `json:"scrollTarget,omitempty"`
}

// State is the single modal slot of a session. Showing a second message
// overwrites the first; there is no queue.
type State struct {
	Open         bool     `json:"open"`
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity"`
	ScrollTarget string   `json:"scrollTarget,omitempty"`
}

// DefaultTitle returns the title used when the caller supplies none:
// "Atenção" for errors, "Aviso" for everything else.
func DefaultTitle(severity Severity) string {
	if severity == SeverityError {
		return "Atenção"
	}
	return "Aviso"
}

// Show opens the modal with the given message, replacing whatever was open.
func (s *State) Show(m Message) {
	title := m.Title
	if title == "" {
		title = DefaultTitle(m.Severity)
	}

	s.Open = true
	s.Title = title
	s.Message = m.Message
	s.Severity = m.Severity
	s.ScrollTarget = m.ScrollTarget
}

// Close clears the slot. Closing an already-closed modal is a no-op.
func (s *State) Close() {
	*s = State{}
}
