package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the conversation store. A DSN containing "@tcp(" is
// treated as MySQL; anything else is an sqlite path, which keeps local
// development free of external services.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.Contains(dsn, "@tcp(") {
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
