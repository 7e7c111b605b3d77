package models

// MessageChannel is the medium a journey message is delivered through.
type MessageChannel string

const (
	MessageChannelApp   MessageChannel = "app"
	MessageChannelEmail MessageChannel = "email"
)

// NewMessage is the payload for creating a message with the message service.
type NewMessage struct {
	Account    string         `json:"account"`
	Contact    string         `json:"contact"`
	Channel    MessageChannel `json:"channel"`
	Type       string         `json:"type,omitempty"`
	To         string         `json:"to,omitempty"`
	FromEmail  string         `json:"from_email,omitempty"`
	Subject    string         `json:"subject,omitempty"`
	Body       string         `json:"body,omitempty"`
	Journey    string         `json:"journey"`
	JourneyRun string         `json:"journey_run"`
}

// Message is a message record held by the message service.
type Message struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// NewMint is the payload for creating a reward mint with the mint service.
type NewMint struct {
	Account    string `json:"account"`
	Contact    string `json:"contact"`
	Journey    string `json:"journey"`
	JourneyRun string `json:"journey_run"`
	Product    string `json:"product"`
	Email      string `json:"email,omitempty"`
}

// Mint is a reward mint record held by the mint service.
type Mint struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SystemUser authors notes created by automation rather than a person.
const SystemUser = "system"

// NewNote is the payload for attaching a note to a contact.
type NewNote struct {
	Account string `json:"account"`
	Contact string `json:"contact"`
	Note    string `json:"note"`
	User    string `json:"user"`
}

// Note is a note record held by the note service.
type Note struct {
	ID string `json:"id"`
}

// ContactUpdate is the partial update sent to the contact service.
type ContactUpdate struct {
	Tags []string `json:"tags,omitempty"`
}
