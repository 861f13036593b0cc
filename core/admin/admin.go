package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	sqlmysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ProxySQL error code returned on bad admin credentials.
const errAccessDenied = 1045

// Connect establishes a connection to the ProxySQL admin interface.
// It returns a *gorm.DB handle or an error if the connection fails.
// There is exactly one attempt; a failure is fatal to the caller.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("login_port must be a valid unix port number (0-65535)")
	}

	// Special characters in the password must be URL encoded in the DSN;
	// url.UserPassword handles both user and password.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	// interpolateParams: the admin interface rejects server-side prepared
	// statements, so parameters are interpolated client-side.
	// The schema name ("main") is accepted and otherwise ignored by proxysql.
	dsn := fmt.Sprintf("%s@tcp(%s:%d)/main?interpolateParams=true&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, timeout, timeout, timeout)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	// SkipInitializeWithVersion: the admin interface reports a synthetic
	// server version; feature detection against it is meaningless.
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       dsn,
		SkipInitializeWithVersion: true,
	}), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to ProxySQL admin interface: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// One reconciliation call uses one connection.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		if IsAccessDenied(err) {
			return nil, fmt.Errorf("access denied authenticating to ProxySQL admin interface as %q: %w", cfg.User, err)
		}
		return nil, fmt.Errorf("unable to connect to ProxySQL admin interface: %w", err)
	}

	return db, nil
}

// IsAccessDenied reports whether err is a MySQL-protocol authentication
// failure from the admin interface.
func IsAccessDenied(err error) bool {
	var myErr *sqlmysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errAccessDenied
}
