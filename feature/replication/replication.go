// Package replication reconciles writer/reader hostgroup pairs in the
// mysql_replication_hostgroups admin table, identified by writer_hostgroup.
// The table shares the MYSQL SERVERS configuration area with backend
// servers.
package replication

import (
	"context"
	"fmt"

	"proxysql-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Params declares the desired configuration of one replication hostgroup
// pair.
type Params struct {
	WriterHostgroup int

	ReaderHostgroup *int
	Comment         *string
}

// Validate checks the parameters before any query is issued.
func (p *Params) Validate() error {
	if p.WriterHostgroup < 0 {
		return fmt.Errorf("writer_hostgroup must not be negative")
	}
	if p.ReaderHostgroup != nil {
		if *p.ReaderHostgroup < 0 {
			return fmt.Errorf("reader_hostgroup must not be negative")
		}
		if *p.ReaderHostgroup == p.WriterHostgroup {
			return fmt.Errorf("reader_hostgroup and writer_hostgroup must be different")
		}
	}
	return nil
}

func (p *Params) resource() *reconcile.Resource {
	res := reconcile.NewResource("mysql_replication_hostgroups", reconcile.AreaMySQLServers).
		Identity("writer_hostgroup", p.WriterHostgroup)

	if p.ReaderHostgroup != nil {
		res.Set("reader_hostgroup", *p.ReaderHostgroup)
	}
	if p.Comment != nil {
		res.Set("comment", *p.Comment)
	}
	return res
}

// Service reconciles mysql_replication_hostgroups rows.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new replication hostgroup service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile converges the hostgroup pair for the writer hostgroup toward
// the declared parameters.
func (s *Service) Reconcile(ctx context.Context, p Params, opts reconcile.Options) (reconcile.Result, error) {
	if err := p.Validate(); err != nil {
		return reconcile.Result{}, err
	}

	result, err := reconcile.Apply(ctx, s.db, p.resource(), opts)
	if err != nil {
		return result, fmt.Errorf("unable to modify replication hostgroup: %w", err)
	}

	s.logger.Info("replication hostgroup reconciled",
		zap.Int("writer_hostgroup", p.WriterHostgroup),
		zap.Bool("changed", result.Changed),
		zap.String("action", string(result.Action)),
	)
	return result, nil
}
