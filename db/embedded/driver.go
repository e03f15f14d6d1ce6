package embedded

import (
	"context"
	"fmt"
	"os"

	sqlexecapi "github.com/kasuganosora/sqlexec/pkg/api"
	sqlexecgorm "github.com/kasuganosora/sqlexec/pkg/api/gorm"
	"github.com/kasuganosora/sqlexec/pkg/resource/domain"
	"github.com/kasuganosora/sqlexec/pkg/resource/memory"
	sqlexecxml "github.com/kasuganosora/sqlexec/pkg/resource/xml"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EngineType selects the sqlexec storage backend.
type EngineType int

const (
	// EngineMemory keeps all rows in process memory. Tests run on it;
	// nothing survives a restart.
	EngineMemory EngineType = iota
	// EngineXML persists tables as XML files under a data directory.
	EngineXML
)

// Open creates a GORM *DB on the sqlexec embedded engine. The engine has no
// single file image to export, so these modes run without blob snapshots.
func Open(dataPath string, eng EngineType) (*gorm.DB, error) {
	db, err := sqlexecapi.NewDB(&sqlexecapi.DBConfig{
		DebugMode:            false,
		UseEnhancedOptimizer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("embedded: NewDB: %w", err)
	}

	ds, err := newDataSource(dataPath, eng)
	if err != nil {
		return nil, err
	}
	if err := ds.Connect(context.Background()); err != nil {
		return nil, fmt.Errorf("embedded: datasource Connect: %w", err)
	}
	if err := db.RegisterDataSource("default", ds); err != nil {
		return nil, fmt.Errorf("embedded: RegisterDataSource: %w", err)
	}

	return gorm.Open(sqlexecgorm.NewDialector(db.Session()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func newDataSource(dataPath string, eng EngineType) (domain.DataSource, error) {
	switch eng {
	case EngineMemory:
		return memory.NewMVCCDataSource(&domain.DataSourceConfig{
			Type:     domain.DataSourceTypeMemory,
			Name:     "default",
			Writable: true,
		}), nil

	case EngineXML:
		if err := os.MkdirAll(dataPath, 0755); err != nil {
			return nil, fmt.Errorf("embedded: create XML data dir %q: %w", dataPath, err)
		}
		ds, err := sqlexecxml.NewXMLFactory().Create(&domain.DataSourceConfig{
			Type:     domain.DataSourceTypeXML,
			Name:     "default",
			Writable: true,
			Database: dataPath,
		})
		if err != nil {
			return nil, fmt.Errorf("embedded: XMLFactory.Create: %w", err)
		}
		return ds, nil

	default:
		return nil, fmt.Errorf("embedded: unknown engine type %d", eng)
	}
}
