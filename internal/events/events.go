package events

import (
	"context"
	"time"
)

type Type string

const (
	ApplicationCreated       Type = "application.created"
	ApplicationSubmitted     Type = "application.submitted"
	ApplicationDeleted       Type = "application.deleted"
	ApplicationDocumentAdded Type = "application.document_added"
)

// ApplicationEvent describes a lifecycle change of a visa application.
type ApplicationEvent struct {
	Type              Type      `json:"type"`
	ApplicationID     string    `json:"applicationId"`
	ApplicationNumber string    `json:"applicationNumber,omitempty"`
	UserID            string    `json:"userId"`
	Status            string    `json:"status,omitempty"`
	DocumentType      string    `json:"documentType,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, evt ApplicationEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ApplicationEvent) error { return nil }
func (NopPublisher) Close() error                                 { return nil }
