// Package db opens the relational store behind the catalog.
//
// MySQL is the production driver; SQLite serves local runs and tests. Both
// go through gorm with the same pool settings, the same zap-backed query
// logger and translated constraint errors.
package db

import (
	"context"
	"strings"

	"github.com/dailyyoga/menuhub/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// Database is the interface for the database
type Database interface {
	DB() (*gorm.DB, error)
	Ping(ctx context.Context) error
	Close() error
}

type gormDatabase struct {
	logger logger.Logger
	db     *gorm.DB
}

// New opens a database for the configured driver
func New(log logger.Logger, cfg *Config) (Database, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
		// every connection to ":memory:" is a separate database
		if cfg.Path == ":memory:" {
			cfg.MaxOpenConns = 1
		}
		if cfg.MaxIdleConns < cfg.MaxOpenConns {
			cfg.MaxIdleConns = cfg.MaxOpenConns
		}
	default:
		dialector = mysql.Open(cfg.DSN())
	}
	return open(log, cfg, dialector)
}

func open(log logger.Logger, cfg *Config, dialector gorm.Dialector) (Database, error) {
	gd := &gormDatabase{
		logger: log,
	}

	var gormLogLevel glogger.LogLevel
	switch strings.ToLower(cfg.LogLevel) {
	case "silent":
		gormLogLevel = glogger.Silent
	case "error":
		gormLogLevel = glogger.Error
	case "info":
		gormLogLevel = glogger.Info
	default:
		gormLogLevel = glogger.Warn
	}

	var err error
	gd.db, err = gorm.Open(dialector, &gorm.Config{
		Logger: &gormLogger{
			logger:        log.Named("gorm"),
			level:         gormLogLevel,
			slowThreshold: cfg.SlowThreshold,
		},
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, ErrConnection(err)
	}
	sqldb, err := gd.db.DB()
	if err != nil {
		return nil, ErrConnection(err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqldb.Ping(); err != nil {
		return nil, ErrConnection(err)
	}

	gd.logger.Info("database connection established",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database+cfg.Path),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return gd, nil
}

func (gd *gormDatabase) DB() (*gorm.DB, error) {
	if gd.db == nil {
		return nil, ErrConnectionNotEstablished
	}
	return gd.db, nil
}

func (gd *gormDatabase) Ping(ctx context.Context) error {
	sqldb, err := gd.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.PingContext(ctx)
}

func (gd *gormDatabase) Close() error {
	sqldb, err := gd.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.Close()
}
