// database/audit.go - Audit stamping at a single interception point
package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type actorKey struct{}

// WithActor returns a request-scoped context carrying the acting user id.
// The actor travels on context.Context, never on a process-wide global, so
// concurrent requests cannot share identity state.
func WithActor(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom extracts the acting user id, if any.
func ActorFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(actorKey{}).(uint)
	return id, ok
}

// RegisterAuditCallbacks installs create/update hooks that stamp audit fields
// immediately before commit, inside the same transaction as the write they
// audit. Models opt in simply by carrying the field names.
func RegisterAuditCallbacks(db *gorm.DB) {
	db.Callback().Create().Before("gorm:create").Register("teamhq:audit_create", stampCreate)
	db.Callback().Update().Before("gorm:update").Register("teamhq:audit_update", stampUpdate)
}

func stampCreate(tx *gorm.DB) {
	if tx.Statement.Schema == nil {
		return
	}
	now := time.Now().UTC()
	actor, _ := ActorFrom(tx.Statement.Context)
	setIfPresent(tx, "CreatedOn", now)
	setIfPresent(tx, "ModifiedOn", now)
	if actor != 0 {
		setIfPresent(tx, "CreatedBy", actor)
		setIfPresent(tx, "ModifiedBy", actor)
	}
}

func stampUpdate(tx *gorm.DB) {
	if tx.Statement.Schema == nil {
		return
	}
	setIfPresent(tx, "ModifiedOn", time.Now().UTC())
	if actor, ok := ActorFrom(tx.Statement.Context); ok && actor != 0 {
		setIfPresent(tx, "ModifiedBy", actor)
	}
}

func setIfPresent(tx *gorm.DB, field string, value interface{}) {
	if _, ok := tx.Statement.Schema.FieldsByName[field]; ok {
		tx.Statement.SetColumn(field, value)
	}
}
