package models

import (
	"time"
)

// Visibility controls whether a paste shows up in discovery listings.
type Visibility string

const (
	// VisibilityPublic pastes appear in the recent-public listing.
	VisibilityPublic Visibility = "public"
	// VisibilityUnlisted pastes are reachable by direct link only.
	VisibilityUnlisted Visibility = "unlisted"
	// VisibilityPrivate pastes are visible to their owner only.
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether v is one of the known visibility states.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
		return true
	}
	return false
}

// AnonymousAuthor is the display label stored for pastes created without an identity.
const AnonymousAuthor = "Anonymous"

// Paste represents a stored text submission and its metadata.
// One flat document per paste, keyed by ID.
type Paste struct {
	ID         string     `json:"id" bson:"_id" dynamodbav:"id"`
	Title      string     `json:"title" bson:"title" dynamodbav:"title"`
	Content    string     `json:"content" bson:"content" dynamodbav:"content"`
	Language   Language   `json:"language" bson:"language" dynamodbav:"language"`
	AuthorID   string     `json:"author_id,omitempty" bson:"author_id,omitempty" dynamodbav:"author_id,omitempty"`
	AuthorName string     `json:"author_name" bson:"author_name" dynamodbav:"author_name"`
	Visibility Visibility `json:"visibility" bson:"visibility" dynamodbav:"visibility"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at" dynamodbav:"created_at"`
	ViewCount  int64      `json:"view_count" bson:"view_count" dynamodbav:"view_count"`
	URL        string     `json:"url" bson:"url" dynamodbav:"url"`
}

// IsAnonymous reports whether the paste has no owning identity.
func (p *Paste) IsAnonymous() bool {
	return p.AuthorID == ""
}

// Identity is the opaque current-user value supplied by the upstream auth
// collaborator. The service only reads these fields.
type Identity struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name,omitempty"`
	ContactAddress string `json:"contact_address,omitempty"`
}

// ResolveAuthor returns the author reference and display label for a paste
// created under the given identity. A nil identity yields an anonymous paste.
func ResolveAuthor(id *Identity) (authorID, authorName string) {
	if id == nil || id.ID == "" {
		return "", AnonymousAuthor
	}
	switch {
	case id.DisplayName != "":
		return id.ID, id.DisplayName
	case id.ContactAddress != "":
		return id.ID, id.ContactAddress
	default:
		return id.ID, AnonymousAuthor
	}
}
