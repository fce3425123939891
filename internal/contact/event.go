package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedEvent = errors.New("malformed contact flow event")
	ErrMissingCaller  = errors.New("contact flow event has no customer phone number")
)

// Event is the Amazon Connect contact flow invocation payload. Only the
// fields the service reads are declared.
type Event struct {
	Name    string       `json:"Name"`
	Details EventDetails `json:"Details"`
}

type EventDetails struct {
	ContactData ContactData       `json:"ContactData"`
	Parameters  map[string]string `json:"Parameters,omitempty"`
}

type ContactData struct {
	ContactID        string   `json:"ContactId"`
	Channel          string   `json:"Channel,omitempty"`
	InitiationMethod string   `json:"InitiationMethod,omitempty"`
	CustomerEndpoint Endpoint `json:"CustomerEndpoint"`
	SystemEndpoint   Endpoint `json:"SystemEndpoint"`
}

type Endpoint struct {
	Address string `json:"Address"`
	Type    string `json:"Type"`
}

// Response is what the contact flow reads back: a success flag and the
// selected numbers joined by ", ".
type Response struct {
	VanityNumberSuccess bool   `json:"vanityNumberSuccess"`
	VanityNumbers       string `json:"vanityNumbers"`
}

func Failure() Response {
	return Response{VanityNumberSuccess: false, VanityNumbers: ""}
}

// ParseEvent decodes data and checks that it names a caller.
func ParseEvent(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.CallerNumber() == "" {
		return nil, ErrMissingCaller
	}
	return &event, nil
}

func (e *Event) CallerNumber() string {
	return strings.TrimSpace(e.Details.ContactData.CustomerEndpoint.Address)
}

func (e *Event) ContactID() string {
	return e.Details.ContactData.ContactID
}
