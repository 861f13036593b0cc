// Package manage issues standalone LOAD/SAVE configuration commands, used
// to move configuration areas between the memory, disk, runtime and config
// layers in a single batch after several reconciliation calls ran with
// load_to_runtime disabled.
package manage

import (
	"context"
	"fmt"
	"strings"

	"proxysql-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Params declares one configuration command from its four tokens, each
// drawn from a closed set.
type Params struct {
	// Action is LOAD or SAVE.
	Action string
	// Settings names the configuration area, e.g. "MYSQL SERVERS".
	Settings string
	// Direction is FROM or TO.
	Direction string
	// Layer is MEMORY, DISK, RUNTIME or CONFIG.
	Layer string
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Command validates the tokens and assembles the command.
func (p *Params) Command() (reconcile.Command, error) {
	area, err := reconcile.ParseArea(p.Settings)
	if err != nil {
		return reconcile.Command{}, err
	}
	cmd := reconcile.Command{
		Action:    reconcile.CommandAction(normalize(p.Action)),
		Area:      area,
		Direction: reconcile.Direction(normalize(p.Direction)),
		Layer:     reconcile.Layer(normalize(p.Layer)),
	}
	if err := cmd.Validate(); err != nil {
		return reconcile.Command{}, err
	}
	return cmd, nil
}

// Service runs configuration commands against the admin connection.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new manage service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Run executes the declared command. The admin interface gives no signal
// whether the command moved anything, so a successful run always reports
// changed=true.
func (s *Service) Run(ctx context.Context, p Params) (bool, error) {
	cmd, err := p.Command()
	if err != nil {
		return false, err
	}

	if err := reconcile.RunCommand(ctx, s.db, cmd); err != nil {
		return false, fmt.Errorf("unable to manage config: %w", err)
	}

	s.logger.Info("config command executed", zap.String("command", cmd.SQL()))
	return true, nil
}
