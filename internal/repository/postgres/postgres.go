// Package postgres holds the gorm repositories. The same code runs against
// SQLite for local development; dialect differences are confined to this file.
package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkcook-go/internal/domain/engagement"
	"linkcook-go/internal/domain/groupbuy"
	"linkcook-go/internal/domain/recipe"
	"linkcook-go/internal/domain/share"
	"linkcook-go/internal/domain/user"
)

// Models lists every persisted type, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.Profile{},
		&groupbuy.GroupBuy{},
		&groupbuy.Participant{},
		&recipe.Recipe{},
		&share.Share{},
		&engagement.Mark{},
	}
}

func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// ForUpdate adds a row lock on Postgres. SQLite serializes writers on its own.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if IsPostgres(db) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// AdvisoryLock takes a transaction-scoped advisory lock on key. SQLite has a
// single writer, so there is nothing to do there.
func AdvisoryLock(ctx context.Context, db *gorm.DB, key string) error {
	if !IsPostgres(db) {
		return nil
	}
	return db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// ValidID reports whether id can be used against a uuid column.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Like builds a case-insensitive substring pattern, escaping LIKE wildcards.
func Like(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(replacer.Replace(search)) + "%"
}
