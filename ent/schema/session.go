package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Session is the stored authentication cookie. At most one row exists.
type Session struct {
	ent.Schema
}

func (Session) Fields() []ent.Field {
	return []ent.Field{
		field.String("username"),
		field.Text("cookie").
			Sensitive().
			Comment("Cookie record, e.g. token=<jwt>; path=/; secure; samesite=strict"),
		field.Time("expires_at").
			Optional().
			Nillable().
			Comment("Token expiry from the exp claim; nil for opaque tokens"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
