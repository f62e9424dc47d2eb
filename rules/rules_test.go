package rules

import (
	"testing"

	"github.com/caengine/core/cellgrid"
	"github.com/caengine/core/tile"
)

type stubEngine struct{ kind Kind }

func (s stubEngine) Kind() Kind { return s.kind }
func (s stubEngine) NextGeneration(cur, next *cellgrid.Grid, tiles, nextTiles *tile.Bitmap, gen uint64) Stats {
	return Stats{}
}

func TestRegisterAndNew(t *testing.T) {
	const k = Kind("test-stub-a")
	Register(k, func(params any) (Engine, error) {
		return stubEngine{kind: k}, nil
	})

	e, err := New(k, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Kind() != k {
		t.Errorf("got kind %q want %q", e.Kind(), k)
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New(Kind("no-such-kind"), nil); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	const k = Kind("test-stub-b")
	Register(k, func(params any) (Engine, error) { return stubEngine{kind: k}, nil })

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on duplicate registration")
		}
	}()
	Register(k, func(params any) (Engine, error) { return stubEngine{kind: k}, nil })
}
