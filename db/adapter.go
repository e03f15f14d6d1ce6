package db

import (
	"fmt"

	"github.com/kawasemi/dungeon-crawler/server/config"
	"github.com/kawasemi/dungeon-crawler/server/db/embedded"
	dbmysql "github.com/kawasemi/dungeon-crawler/server/db/mysql"
	dbsqlite "github.com/kawasemi/dungeon-crawler/server/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite         = "sqlite"
	ModeEmbeddedMemory = "embedded_memory"
	ModeEmbeddedXML    = "embedded_xml"
	ModeMySQL          = "mysql"
)

// Open returns a *gorm.DB for the configured database mode.
// Snapshot persistence requires sqlite mode, where the working database is a
// single file; the other modes serve tests (embedded) and server-hosted
// deployments (mysql).
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeEmbeddedMemory:
		return embedded.Open("", embedded.EngineMemory)
	case ModeEmbeddedXML:
		return embedded.Open(cfg.EmbeddedPath, embedded.EngineXML)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
