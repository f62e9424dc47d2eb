// Package rules defines the tagged "RuleKind" variant and the shared
// per-generation return value every rule engine produces, replacing the
// ~80 hand-dispatched kernel entry points of spec §6 with one registry
// (spec §9 redesign note: "better expressed as a tagged variant RuleKind
// and a single trait/interface").
//
// The registry pattern itself is grounded on the teacher's
// mappers.RegisterMapper / mappers.Get: each rule family registers a
// constructor under a Kind at init() time, and New looks it up.
package rules

import (
	"fmt"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/tile"
)

// Kind names one rule family.
type Kind string

const (
	KindLifeLike       Kind = "lifelike"
	KindGenerations    Kind = "generations"
	KindHROTMoore      Kind = "hrot-moore"
	KindHROTVonNeumann Kind = "hrot-vn"
	KindHROTShaped     Kind = "hrot-shaped"
	KindRuleTree       Kind = "ruletree"
	KindRuleTable      Kind = "ruletable"
	KindRuleLoader     Kind = "ruleloader"
	KindSuper          Kind = "super"
	KindInvestigator   Kind = "investigator"
)

// Stats is the shared per-generation output every engine produces: the
// eleven values spec §6 packs into "shared[11]uint32"
// (population/births/deaths plus the occupied and alive boxes), handed
// back as a struct instead (see SPEC_FULL.md §7 for why that repackaging
// doesn't change any tested invariant).
type Stats struct {
	Population uint32
	Births     uint32
	Deaths     uint32
	Occupied   tile.Box
	Alive      tile.Box
}

// Engine advances one generation. Implementations read cur and the active
// tile bitmap, and write next plus the next tile bitmap; gen is the
// generation counter used for double-buffer parity and any
// parity-dependent behaviour (e.g. Life-like's altSpecified table, spec
// §4.2).
type Engine interface {
	Kind() Kind
	NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) Stats
}

// Factory builds an Engine from family-specific parameters. Each family
// package registers its own concrete parameter type; Factory is
// intentionally `any -> (Engine, error)` so this package never imports
// the rule-family packages (avoiding an import cycle, since those
// packages import rules for Engine/Stats/Kind).
type Factory func(params any) (Engine, error)

var registry = map[Kind]Factory{}

// Register installs the constructor for kind. Panics on duplicate
// registration, exactly like mappers.RegisterMapper.
func Register(kind Kind, f Factory) {
	if _, ok := registry[kind]; ok {
		panic(fmt.Sprintf("rules: kind %q already registered", kind))
	}
	registry[kind] = f
}

// New builds the engine for kind using params, whose concrete type is
// defined by that family's package (e.g. hrot.MooreParams).
func New(kind Kind, params any) (Engine, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("rules: unknown kind %q", kind)
	}
	return f(params)
}
