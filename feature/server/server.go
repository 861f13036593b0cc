package server

import (
	"context"
	"fmt"

	"proxysql-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultBackendPort = 3306

	maxPort           = 65535
	maxCompression    = 102400
	maxReplicationLag = 126144000
)

// Statuses a backend server may be declared with.
const (
	StatusOnline      = "ONLINE"
	StatusOfflineSoft = "OFFLINE_SOFT"
	StatusOfflineHard = "OFFLINE_HARD"
)

// Params declares the desired configuration of one backend server row in
// mysql_servers. Hostname is required; hostgroup and port default to 0 and
// 3306. Pointer fields left nil stay out of the reconciliation entirely, so
// ProxySQL's own column defaults apply on insert and existing values are
// left alone on update.
type Params struct {
	HostgroupID int
	Hostname    string
	Port        int

	Status            *string
	Weight            *int
	Compression       *int
	MaxConnections    *int
	MaxReplicationLag *int
	UseSSL            *bool
	MaxLatencyMS      *int
	Comment           *string
}

// Validate checks parameter ranges before any query is issued.
func (p *Params) Validate() error {
	if p.Hostname == "" {
		return fmt.Errorf("hostname is required")
	}
	if p.HostgroupID < 0 {
		return fmt.Errorf("hostgroup_id must not be negative")
	}
	if p.Port < 0 || p.Port > maxPort {
		return fmt.Errorf("port must be a valid unix port number (0-%d)", maxPort)
	}
	if p.Status != nil {
		switch *p.Status {
		case StatusOnline, StatusOfflineSoft, StatusOfflineHard:
		default:
			return fmt.Errorf("status must be one of %s, %s, %s",
				StatusOnline, StatusOfflineSoft, StatusOfflineHard)
		}
	}
	if p.Compression != nil && (*p.Compression < 0 || *p.Compression > maxCompression) {
		return fmt.Errorf("compression must be set between 0 and %d", maxCompression)
	}
	if p.MaxReplicationLag != nil && (*p.MaxReplicationLag < 0 || *p.MaxReplicationLag > maxReplicationLag) {
		return fmt.Errorf("max_replication_lag must be set between 0 and %d", maxReplicationLag)
	}
	return nil
}

// resource translates the declared parameters into a descriptor. Only set
// fields become part of the diff.
func (p *Params) resource() *reconcile.Resource {
	port := p.Port
	if port == 0 {
		port = defaultBackendPort
	}

	res := reconcile.NewResource("mysql_servers", reconcile.AreaMySQLServers).
		Identity("hostgroup_id", p.HostgroupID).
		Identity("hostname", p.Hostname).
		Identity("port", port)

	if p.Status != nil {
		res.Set("status", *p.Status)
	}
	if p.Weight != nil {
		res.Set("weight", *p.Weight)
	}
	if p.Compression != nil {
		res.Set("compression", *p.Compression)
	}
	if p.MaxConnections != nil {
		res.Set("max_connections", *p.MaxConnections)
	}
	if p.MaxReplicationLag != nil {
		res.Set("max_replication_lag", *p.MaxReplicationLag)
	}
	if p.UseSSL != nil {
		res.Set("use_ssl", *p.UseSSL)
	}
	if p.MaxLatencyMS != nil {
		res.Set("max_latency_ms", *p.MaxLatencyMS)
	}
	if p.Comment != nil {
		res.Set("comment", *p.Comment)
	}
	return res
}

// Service reconciles backend server rows.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new backend server service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile converges the mysql_servers row identified by hostgroup,
// hostname and port toward the declared parameters.
func (s *Service) Reconcile(ctx context.Context, p Params, opts reconcile.Options) (reconcile.Result, error) {
	if err := p.Validate(); err != nil {
		return reconcile.Result{}, err
	}

	result, err := reconcile.Apply(ctx, s.db, p.resource(), opts)
	if err != nil {
		return result, fmt.Errorf("unable to modify server: %w", err)
	}

	s.logger.Info("backend server reconciled",
		zap.String("hostname", p.Hostname),
		zap.Int("hostgroup_id", p.HostgroupID),
		zap.Bool("changed", result.Changed),
		zap.String("action", string(result.Action)),
	)
	return result, nil
}
