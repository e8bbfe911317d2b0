package relation

import "time"

// Kind is the closed set of binary relations the register manages.
type Kind string

const (
	// KindFavorite links a user to a recipe they favorited.
	KindFavorite Kind = "favorite"
	// KindCart links a user to a recipe in their shopping cart.
	KindCart Kind = "cart"
	// KindSubscription links a follower to a recipe author.
	KindSubscription Kind = "subscription"
)

// Edge is one directed fact (kind, subject, object). For favorite/cart the
// subject is a user and the object a recipe; for subscription both sides are
// users. The composite unique index makes the storage layer the arbiter of
// pair uniqueness, so two racing adds cannot both commit.
type Edge struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Kind      Kind      `json:"kind" gorm:"size:32;not null;uniqueIndex:idx_kind_subject_object;index:idx_kind_subject,priority:1"`
	SubjectID int64     `json:"subject_id" gorm:"not null;uniqueIndex:idx_kind_subject_object;index:idx_kind_subject,priority:2"`
	ObjectID  int64     `json:"object_id" gorm:"not null;uniqueIndex:idx_kind_subject_object"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Edge) TableName() string { return "relation_edges" }
