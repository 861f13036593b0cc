package reconcile

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Area is a ProxySQL configuration area, the token substituted into
// SAVE/LOAD administrative commands.
type Area string

const (
	AreaMySQLServers    Area = "MYSQL SERVERS"
	AreaMySQLUsers      Area = "MYSQL USERS"
	AreaMySQLQueryRules Area = "MYSQL QUERY RULES"
	AreaMySQLVariables  Area = "MYSQL VARIABLES"
	AreaAdminVariables  Area = "ADMIN VARIABLES"
	AreaScheduler       Area = "SCHEDULER"
)

var areas = map[Area]struct{}{
	AreaMySQLServers:    {},
	AreaMySQLUsers:      {},
	AreaMySQLQueryRules: {},
	AreaMySQLVariables:  {},
	AreaAdminVariables:  {},
	AreaScheduler:       {},
}

// Valid reports whether a is a recognized configuration area.
func (a Area) Valid() bool {
	_, ok := areas[a]
	return ok
}

// ParseArea matches a case-insensitive area name such as "mysql servers".
func ParseArea(s string) (Area, error) {
	a := Area(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown configuration area %q", s)
	}
	return a, nil
}

// CommandAction is the verb of an administrative config command.
type CommandAction string

const (
	ActionLoad CommandAction = "LOAD"
	ActionSave CommandAction = "SAVE"
)

// Direction is the preposition joining the area and the layer.
type Direction string

const (
	DirectionFrom Direction = "FROM"
	DirectionTo   Direction = "TO"
)

// Layer is the configuration layer a command addresses.
type Layer string

const (
	LayerMemory  Layer = "MEMORY"
	LayerDisk    Layer = "DISK"
	LayerRuntime Layer = "RUNTIME"
	LayerConfig  Layer = "CONFIG"
)

// Command is one administrative configuration command, e.g.
// LOAD MYSQL SERVERS TO RUNTIME. Every token comes from a closed set; the
// assembled statement is passed to the admin connection as-is.
type Command struct {
	Action    CommandAction
	Area      Area
	Direction Direction
	Layer     Layer
}

// Validate checks the token combination. The CONFIG layer only exists as a
// source: LOAD ... FROM CONFIG.
func (c Command) Validate() error {
	if c.Action != ActionLoad && c.Action != ActionSave {
		return fmt.Errorf("invalid action %q", string(c.Action))
	}
	if !c.Area.Valid() {
		return fmt.Errorf("unknown configuration area %q", string(c.Area))
	}
	if c.Direction != DirectionFrom && c.Direction != DirectionTo {
		return fmt.Errorf("invalid direction %q", string(c.Direction))
	}
	switch c.Layer {
	case LayerMemory, LayerDisk, LayerRuntime:
	case LayerConfig:
		if c.Action != ActionLoad && c.Direction != DirectionFrom {
			return fmt.Errorf("neither the action %q nor the direction %q is a valid combination with the CONFIG layer",
				string(c.Action), string(c.Direction))
		}
		if c.Action != ActionLoad {
			return fmt.Errorf("the action %q is not a valid combination with the CONFIG layer", string(c.Action))
		}
		if c.Direction != DirectionFrom {
			return fmt.Errorf("the direction %q is not a valid combination with the CONFIG layer", string(c.Direction))
		}
	default:
		return fmt.Errorf("invalid layer %q", string(c.Layer))
	}
	return nil
}

// SQL assembles the command text.
func (c Command) SQL() string {
	return strings.Join([]string{
		string(c.Action), string(c.Area), string(c.Direction), string(c.Layer),
	}, " ")
}

// RunCommand validates and executes a configuration command.
func RunCommand(ctx context.Context, db *gorm.DB, c Command) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(c.SQL()).Error; err != nil {
		return fmt.Errorf("%s failed: %w", c.SQL(), err)
	}
	return nil
}

// SaveToDisk persists the area's in-memory configuration to the on-disk
// database.
func SaveToDisk(ctx context.Context, db *gorm.DB, area Area) error {
	return RunCommand(ctx, db, Command{
		Action: ActionSave, Area: area, Direction: DirectionTo, Layer: LayerDisk,
	})
}

// LoadToRuntime activates the area's in-memory configuration in the runtime
// layer.
func LoadToRuntime(ctx context.Context, db *gorm.DB, area Area) error {
	return RunCommand(ctx, db, Command{
		Action: ActionLoad, Area: area, Direction: DirectionTo, Layer: LayerRuntime,
	})
}
