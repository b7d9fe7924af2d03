package models

import "time"

// RawRecord is the normalized per-message tuple produced by connectors.
// The aggregator turns accepted records into Interactions.
type RawRecord struct {
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Kind           InteractionKind `json:"kind"`
	Direction      Direction       `json:"direction"`
	Timestamp      time.Time       `json:"timestamp"`
	Subject        string          `json:"subject"`
	MessageID      string          `json:"message_id"`
	ContentPreview string          `json:"content_preview"`
}

// Interaction is one observed message event between the owner and a contact.
// Immutable once created; owned by the Contact it was appended to.
type Interaction struct {
	Kind           InteractionKind `json:"kind"`
	Timestamp      time.Time       `json:"timestamp"`
	Subject        string          `json:"subject"`
	MessageID      string          `json:"message_id"`
	Direction      Direction       `json:"direction"`
	SourceAccount  string          `json:"source_account"`
	ContentPreview string          `json:"content_preview"`

	Sentiment      Sentiment `json:"sentiment,omitempty"`
	SentimentScore float64   `json:"sentiment_score,omitempty"`

	RequiresResponse  bool     `json:"requires_response,omitempty"`
	WasResponded      bool     `json:"was_responded,omitempty"`
	ResponseTimeHours *float64 `json:"response_time_hours,omitempty"`
}

// NewInteraction builds an Interaction from a raw record, forcing the
// kind/direction invariant: SENT, CC and BCC are always outbound from the
// owner's account, RECEIVED is always inbound. Meeting and call records keep
// the direction the connector reported.
func NewInteraction(rec RawRecord, accountID string) Interaction {
	direction := rec.Direction
	switch rec.Kind {
	case KindSent, KindCC, KindBCC:
		direction = DirectionOutbound
	case KindReceived:
		direction = DirectionInbound
	}

	return Interaction{
		Kind:           rec.Kind,
		Timestamp:      rec.Timestamp,
		Subject:        rec.Subject,
		MessageID:      rec.MessageID,
		Direction:      direction,
		SourceAccount:  accountID,
		ContentPreview: rec.ContentPreview,
		Sentiment:      SentimentNeutral,
	}
}
