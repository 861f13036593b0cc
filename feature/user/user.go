// Package user reconciles frontend/backend account entries in the
// mysql_users admin table, identified by username.
package user

import (
	"context"
	"fmt"

	"proxysql-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Params declares the desired configuration of one mysql_users row.
// Username is required; everything else is optional and stays out of the
// reconciliation when nil.
type Params struct {
	Username string

	Password              *string
	Active                *bool
	UseSSL                *bool
	DefaultHostgroup      *int
	DefaultSchema         *string
	TransactionPersistent *bool
	FastForward           *bool
	Backend               *bool
	Frontend              *bool
	MaxConnections        *int
}

// Validate checks the parameters before any query is issued.
func (p *Params) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("username is required")
	}
	if p.DefaultHostgroup != nil && *p.DefaultHostgroup < 0 {
		return fmt.Errorf("default_hostgroup must not be negative")
	}
	if p.MaxConnections != nil && *p.MaxConnections < 0 {
		return fmt.Errorf("max_connections must not be negative")
	}
	return nil
}

func (p *Params) resource() *reconcile.Resource {
	res := reconcile.NewResource("mysql_users", reconcile.AreaMySQLUsers).
		Identity("username", p.Username)

	if p.Password != nil {
		res.Set("password", *p.Password)
	}
	if p.Active != nil {
		res.Set("active", *p.Active)
	}
	if p.UseSSL != nil {
		res.Set("use_ssl", *p.UseSSL)
	}
	if p.DefaultHostgroup != nil {
		res.Set("default_hostgroup", *p.DefaultHostgroup)
	}
	if p.DefaultSchema != nil {
		res.Set("default_schema", *p.DefaultSchema)
	}
	if p.TransactionPersistent != nil {
		res.Set("transaction_persistent", *p.TransactionPersistent)
	}
	if p.FastForward != nil {
		res.Set("fast_forward", *p.FastForward)
	}
	if p.Backend != nil {
		res.Set("backend", *p.Backend)
	}
	if p.Frontend != nil {
		res.Set("frontend", *p.Frontend)
	}
	if p.MaxConnections != nil {
		res.Set("max_connections", *p.MaxConnections)
	}
	return res
}

// Service reconciles mysql_users rows.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile converges the mysql_users row for the username toward the
// declared parameters.
func (s *Service) Reconcile(ctx context.Context, p Params, opts reconcile.Options) (reconcile.Result, error) {
	if err := p.Validate(); err != nil {
		return reconcile.Result{}, err
	}

	result, err := reconcile.Apply(ctx, s.db, p.resource(), opts)
	if err != nil {
		return result, fmt.Errorf("unable to modify user: %w", err)
	}

	s.logger.Info("user reconciled",
		zap.String("username", p.Username),
		zap.Bool("changed", result.Changed),
		zap.String("action", string(result.Action)),
	)
	return result, nil
}
