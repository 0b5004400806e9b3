package runner

import (
	"fmt"

	"github.com/rybkr/wfc3d/internal/grid"
	"github.com/rybkr/wfc3d/internal/mathx"
)

// ActionKind identifies what the last Tick did.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	// ActionSetCell placed Action.Placement at Action.Cell.
	ActionSetCell
	// ActionUndoCells unwound the last Action.Count placements.
	ActionUndoCells
	// ActionClearCells cleared the regions around every unsolvable cell.
	ActionClearCells
	// ActionFinish found every cell set.
	ActionFinish
	// ActionFailedOnCell picked Action.Cell but nothing could go there.
	ActionFailedOnCell
)

var actionNames = [...]string{"none", "set_cell", "undo_cells", "clear_cells", "finish", "failed_on_cell"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", k)
}

// Action records one Tick for observers.
type Action struct {
	Kind      ActionKind
	Cell      mathx.Vec3
	Placement grid.Placement
	Count     int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSetCell:
		return fmt.Sprintf("%v %v tile=%d %v", a.Kind, a.Cell, a.Placement.Tile, a.Placement.Permutation)
	case ActionUndoCells:
		return fmt.Sprintf("%v %d", a.Kind, a.Count)
	case ActionFailedOnCell:
		return fmt.Sprintf("%v %v", a.Kind, a.Cell)
	default:
		return a.Kind.String()
	}
}
