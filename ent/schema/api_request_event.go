package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// APIRequestEvent records every backend HTTP round trip.
type APIRequestEvent struct {
	ent.Schema
}

func (APIRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (APIRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("request_id").
			Comment("X-Request-ID sent with the request"),
		field.String("method"),
		field.String("path").
			Comment("Request path without query"),
		field.Int("status").
			Comment("HTTP status, 0 when no response arrived"),
		field.Int64("latency_ms"),
		field.Bool("success"),
		field.String("error_message").
			Default(""),
	}
}

func (APIRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("path"),
	}
}
