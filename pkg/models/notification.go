package models

import "time"

// NotificationType categorizes notifications for the client UI
type NotificationType string

const (
	NotificationJobMatch           NotificationType = "job_match"
	NotificationApplicationUpdate  NotificationType = "application_update"
	NotificationInterviewScheduled NotificationType = "interview_scheduled"
	NotificationMessage            NotificationType = "message"
	NotificationSystem             NotificationType = "system"
)

// Notification is a message surfaced to a user. Created by the lifecycle
// sweep and other collaborators; only the read flag is ever mutated.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	ActionURL string           `json:"action_url,omitempty"`
}
