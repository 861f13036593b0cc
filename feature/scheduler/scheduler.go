// Package scheduler reconciles periodic job entries in the scheduler admin
// table, identified by the script filename.
package scheduler

import (
	"context"
	"fmt"

	"proxysql-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minIntervalMS = 100
	maxIntervalMS = 100000000
)

// Params declares the desired configuration of one scheduler job. Filename
// is required and identifies the job; jobs sharing a filename are a caller
// error.
type Params struct {
	Filename string

	Active     *bool
	IntervalMS *int
	Arg1       *string
	Arg2       *string
	Arg3       *string
	Arg4       *string
	Arg5       *string
	Comment    *string
}

// Validate checks the parameters before any query is issued.
func (p *Params) Validate() error {
	if p.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if p.IntervalMS != nil && (*p.IntervalMS < minIntervalMS || *p.IntervalMS > maxIntervalMS) {
		return fmt.Errorf("interval_ms must be set between %d and %d", minIntervalMS, maxIntervalMS)
	}
	return nil
}

func (p *Params) resource() *reconcile.Resource {
	res := reconcile.NewResource("scheduler", reconcile.AreaScheduler).
		Identity("filename", p.Filename)

	if p.Active != nil {
		res.Set("active", *p.Active)
	}
	if p.IntervalMS != nil {
		res.Set("interval_ms", *p.IntervalMS)
	}
	if p.Arg1 != nil {
		res.Set("arg1", *p.Arg1)
	}
	if p.Arg2 != nil {
		res.Set("arg2", *p.Arg2)
	}
	if p.Arg3 != nil {
		res.Set("arg3", *p.Arg3)
	}
	if p.Arg4 != nil {
		res.Set("arg4", *p.Arg4)
	}
	if p.Arg5 != nil {
		res.Set("arg5", *p.Arg5)
	}
	if p.Comment != nil {
		res.Set("comment", *p.Comment)
	}
	return res
}

// Service reconciles scheduler rows.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new scheduler service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile converges the scheduler row for the filename toward the
// declared parameters.
func (s *Service) Reconcile(ctx context.Context, p Params, opts reconcile.Options) (reconcile.Result, error) {
	if err := p.Validate(); err != nil {
		return reconcile.Result{}, err
	}

	result, err := reconcile.Apply(ctx, s.db, p.resource(), opts)
	if err != nil {
		return result, fmt.Errorf("unable to modify scheduler job: %w", err)
	}

	s.logger.Info("scheduler job reconciled",
		zap.String("filename", p.Filename),
		zap.Bool("changed", result.Changed),
		zap.String("action", string(result.Action)),
	)
	return result, nil
}
