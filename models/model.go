package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockTable scopes tx to take FOR UPDATE row locks on the named table.
func LockTable(tx *gorm.DB, table string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: table}})
}
