// Package rule reconciles query routing rules in the mysql_query_rules
// admin table, identified by rule_id.
package rule

import (
	"context"
	"fmt"

	"proxysql-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxPort = 65535

// Params declares the desired configuration of one query rule. RuleID is the
// identity and must be supplied; every other field is optional and stays out
// of the reconciliation when nil.
type Params struct {
	RuleID int

	Active               *bool
	Username             *string
	Schemaname           *string
	FlagIN               *int
	ClientAddr           *string
	ProxyAddr            *string
	ProxyPort            *int
	Digest               *string
	MatchDigest          *string
	MatchPattern         *string
	NegateMatchPattern   *bool
	FlagOUT              *int
	ReplacePattern       *string
	DestinationHostgroup *int
	CacheTTL             *int
	Timeout              *int
	Retries              *int
	Delay                *int
	MirrorFlagOUT        *int
	MirrorHostgroup      *int
	ErrorMsg             *string
	Log                  *bool
	Apply                *bool
	Comment              *string
}

// Validate checks the parameters before any query is issued.
func (p *Params) Validate() error {
	if p.RuleID <= 0 {
		return fmt.Errorf("rule_id is required and must be positive")
	}
	if p.ProxyPort != nil && (*p.ProxyPort < 0 || *p.ProxyPort > maxPort) {
		return fmt.Errorf("proxy_port must be a valid unix port number (0-%d)", maxPort)
	}
	if p.CacheTTL != nil && *p.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if p.Retries != nil && (*p.Retries < 0 || *p.Retries > 1000) {
		return fmt.Errorf("retries must be set between 0 and 1000")
	}
	return nil
}

func (p *Params) resource() *reconcile.Resource {
	res := reconcile.NewResource("mysql_query_rules", reconcile.AreaMySQLQueryRules).
		Identity("rule_id", p.RuleID)

	if p.Active != nil {
		res.Set("active", *p.Active)
	}
	if p.Username != nil {
		res.Set("username", *p.Username)
	}
	if p.Schemaname != nil {
		res.Set("schemaname", *p.Schemaname)
	}
	if p.FlagIN != nil {
		res.Set("flagIN", *p.FlagIN)
	}
	if p.ClientAddr != nil {
		res.Set("client_addr", *p.ClientAddr)
	}
	if p.ProxyAddr != nil {
		res.Set("proxy_addr", *p.ProxyAddr)
	}
	if p.ProxyPort != nil {
		res.Set("proxy_port", *p.ProxyPort)
	}
	if p.Digest != nil {
		res.Set("digest", *p.Digest)
	}
	if p.MatchDigest != nil {
		res.Set("match_digest", *p.MatchDigest)
	}
	if p.MatchPattern != nil {
		res.Set("match_pattern", *p.MatchPattern)
	}
	if p.NegateMatchPattern != nil {
		res.Set("negate_match_pattern", *p.NegateMatchPattern)
	}
	if p.FlagOUT != nil {
		res.Set("flagOUT", *p.FlagOUT)
	}
	if p.ReplacePattern != nil {
		res.Set("replace_pattern", *p.ReplacePattern)
	}
	if p.DestinationHostgroup != nil {
		res.Set("destination_hostgroup", *p.DestinationHostgroup)
	}
	if p.CacheTTL != nil {
		res.Set("cache_ttl", *p.CacheTTL)
	}
	if p.Timeout != nil {
		res.Set("timeout", *p.Timeout)
	}
	if p.Retries != nil {
		res.Set("retries", *p.Retries)
	}
	if p.Delay != nil {
		res.Set("delay", *p.Delay)
	}
	if p.MirrorFlagOUT != nil {
		res.Set("mirror_flagOUT", *p.MirrorFlagOUT)
	}
	if p.MirrorHostgroup != nil {
		res.Set("mirror_hostgroup", *p.MirrorHostgroup)
	}
	if p.ErrorMsg != nil {
		res.Set("error_msg", *p.ErrorMsg)
	}
	if p.Log != nil {
		res.Set("log", *p.Log)
	}
	if p.Apply != nil {
		res.Set("apply", *p.Apply)
	}
	if p.Comment != nil {
		res.Set("comment", *p.Comment)
	}
	return res
}

// Service reconciles mysql_query_rules rows.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new query rule service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile converges the mysql_query_rules row for the rule_id toward the
// declared parameters.
func (s *Service) Reconcile(ctx context.Context, p Params, opts reconcile.Options) (reconcile.Result, error) {
	if err := p.Validate(); err != nil {
		return reconcile.Result{}, err
	}

	result, err := reconcile.Apply(ctx, s.db, p.resource(), opts)
	if err != nil {
		return result, fmt.Errorf("unable to modify rule: %w", err)
	}

	s.logger.Info("query rule reconciled",
		zap.Int("rule_id", p.RuleID),
		zap.Bool("changed", result.Changed),
		zap.String("action", string(result.Action)),
	)
	return result, nil
}
