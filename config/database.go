package config

import (
	"context"
	"fmt"
	"time"

	"videoportalapi/pkg/embeddeddb"
	"videoportalapi/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the global GORM database instance used throughout the application.
var DB *gorm.DB

// embedded is non-nil when DB_EMBEDDED is set.
var embedded *embeddeddb.Server

// ConnectDB opens the GORM connection, starting the embedded server first when configured.
func ConnectDB() error {
	var dsn string
	if Cfg.DBEmbedded {
		srv, err := embeddeddb.Start(context.Background(), Cfg.DBName)
		if err != nil {
			logger.Errorf("Embedded database start failed: %v", err)
			return err
		}
		embedded = srv
		dsn = srv.DSN()
		logger.Infof("Connecting to embedded database %s on port %d", Cfg.DBName, srv.Port)
	} else {
		logger.Infof("Connecting to database %s@%s:%d/%s", Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName)
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			Cfg.DBUser,
			Cfg.DBPass,
			Cfg.DBHost,
			Cfg.DBPort,
			Cfg.DBName,
		)
	}

	db, err := Open(dsn)
	if err != nil {
		logger.Errorf("GORM connection failed: %v", err)
		CloseDB()
		return err
	}
	logger.Infof("GORM connected successfully to database %s", Cfg.DBName)

	DB = db
	return nil
}

// Open returns a GORM handle for a MySQL DSN with gorm's own logging routed to pkg/logger.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger.GormWriter{}, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// CloseDB releases the connection pool and stops the embedded server if one is running.
func CloseDB() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if embedded != nil {
		if err := embedded.Close(); err != nil {
			logger.Warnf("%v", err)
		}
		embedded = nil
	}
}
