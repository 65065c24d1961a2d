// Package models contains data structures for the application's domain models.
package models

import "time"

// NotificationVerb is the kind of event a notification records.
type NotificationVerb string

const (
	// VerbLiked records that the actor liked the recipient's post.
	VerbLiked NotificationVerb = "liked"
	// VerbCommented records that the actor commented on the recipient's post.
	VerbCommented NotificationVerb = "commented"
)

// Notification is an append-only record of an actor acting on a recipient's
// post. Records are immutable once created; only the read flag may change.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	ActorID     uint             `gorm:"not null" json:"actor_id"`
	Verb        NotificationVerb `gorm:"type:varchar(20);not null" json:"verb"`
	PostID      uint             `gorm:"not null" json:"post_id"`
	IsRead      bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`

	// Relationships
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
	Actor     User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Post      Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
