package database

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options describes how to reach PostgreSQL. DSN wins over the discrete fields.
type Options struct {
	DSN      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	Debug    bool
}

var (
	db      *gorm.DB
	connErr error
	once    sync.Once
)

// Connect opens the shared pool once per process.
func Connect(opts Options) (*gorm.DB, error) {
	once.Do(func() {
		dsn := opts.DSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				valueOrDefault(opts.Host, "localhost"),
				valueOrDefault(opts.User, "postgres"),
				opts.Password,
				valueOrDefault(opts.Name, "leximind"),
				valueOrDefault(opts.Port, "5432"),
			)
		}

		level := gormlogger.Warn
		if opts.Debug {
			level = gormlogger.Info
		}

		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(level),
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		if err != nil {
			connErr = fmt.Errorf("failed to connect database: %w", err)
			return
		}

		sqlDB, err := conn.DB()
		if err != nil {
			connErr = err
			return
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		db = conn
	})

	return db, connErr
}

func valueOrDefault(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}
