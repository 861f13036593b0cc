// Package variable reconciles entries in the global_variables admin table.
//
// Variables cannot be created or removed through the admin interface, only
// set; a variable name with no row is an error. Variables prefixed with
// "admin-" belong to the ADMIN VARIABLES configuration area, all others to
// MYSQL VARIABLES, which decides the SAVE/LOAD commands issued after a
// change.
package variable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"proxysql-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const adminPrefix = "admin-"

// Params declares the desired value of one global variable. An empty Value
// selects read-only mode: the current setting is returned without writing.
type Params struct {
	Name  string
	Value string
}

// Validate checks the parameters before any query is issued.
func (p *Params) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("variable name is required")
	}
	return nil
}

// AreaFor returns the configuration area a variable belongs to.
func AreaFor(name string) reconcile.Area {
	if strings.HasPrefix(name, adminPrefix) {
		return reconcile.AreaAdminVariables
	}
	return reconcile.AreaMySQLVariables
}

func (p *Params) resource() *reconcile.Resource {
	res := reconcile.NewResource("global_variables", AreaFor(p.Name)).
		Identity("variable_name", p.Name)
	if p.Value != "" {
		res.Set("variable_value", p.Value)
	}
	return res
}

// Service reconciles global_variables rows.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new variable service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Get returns the current row for the variable, or an error when the
// variable does not exist.
func (s *Service) Get(ctx context.Context, name string) (map[string]string, error) {
	p := Params{Name: name}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	row, found, err := reconcile.Lookup(ctx, s.db, p.resource())
	if err != nil {
		return nil, fmt.Errorf("unable to get config: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("the variable %q was not found", name)
	}
	return row, nil
}

// Reconcile sets the variable to the declared value. With an empty value it
// reads and reports the current setting instead (changed=false).
func (s *Service) Reconcile(ctx context.Context, p Params, opts reconcile.Options) (reconcile.Result, error) {
	if err := p.Validate(); err != nil {
		return reconcile.Result{}, err
	}

	if p.Value == "" {
		row, err := s.Get(ctx, p.Name)
		if err != nil {
			return reconcile.Result{}, err
		}
		return reconcile.Result{Changed: false, Action: reconcile.ActionNone, Row: row}, nil
	}

	// Variables only support update; a missing row must not become an
	// INSERT.
	opts.UpdateOnly = true
	opts.State = reconcile.StatePresent

	result, err := reconcile.Apply(ctx, s.db, p.resource(), opts)
	if err != nil {
		var notFound *reconcile.ErrNotFound
		if errors.As(err, &notFound) {
			return result, fmt.Errorf("the variable %q was not found", p.Name)
		}
		return result, fmt.Errorf("unable to set config: %w", err)
	}

	s.logger.Info("global variable reconciled",
		zap.String("variable", p.Name),
		zap.String("area", string(AreaFor(p.Name))),
		zap.Bool("changed", result.Changed),
	)
	return result, nil
}
