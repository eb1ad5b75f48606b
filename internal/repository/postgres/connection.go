package postgres

import (
	"log/slog"
	"time"

	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the blog needs, in creation order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Like{},
	}
}

// SlowQueryThreshold is the duration above which gorm logs a query as slow.
const SlowQueryThreshold = 200 * time.Millisecond

// Config returns the gorm settings shared by the server and the tests.
// TranslateError turns unique violations into gorm.ErrDuplicatedKey.
func Config(gormLog logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	}
}

// NewLogger sends gorm's query and error logs through log.
func NewLogger(log *slog.Logger, level logger.LogLevel) logger.Interface {
	return logger.NewSlogLogger(log.With("component", "gorm"), logger.Config{
		SlowThreshold:             SlowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// LogLevel maps a process log level name to gorm's levels. SQL statements
// are only traced at debug.
func LogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}

func NewConnection(databaseURL string, gormLog logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), Config(gormLog))
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}

	return db, nil
}

// NewRepositories scopes every content repository to namespace.
func NewRepositories(db *gorm.DB, namespace string) *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepository(db),
		Post:    NewPostRepository(db, namespace),
		Comment: NewCommentRepository(db, namespace),
		Like:    NewLikeRepository(db, namespace),
	}
}
