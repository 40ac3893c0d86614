// Package tvc reads and rewrites contract containers: bag-of-cells files
// whose root is a StateInit cell.
package tvc

import (
	"fmt"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// TickTock marks a special system contract.
type TickTock struct {
	Tick bool
	Tock bool
}

// StateInit mirrors the TL-B layout
//
//	_ split_depth:(Maybe (## 5)) special:(Maybe TickTock)
//	  code:(Maybe ^Cell) data:(Maybe ^Cell)
//	  library:(HashmapE 256 SimpleLib)
//	= StateInit;
//
// The library dictionary is carried opaquely: HashmapE is a maybe-reference
// on the wire and nothing here needs to look inside it.
type StateInit struct {
	SplitDepth *uint8
	TickTock   *TickTock
	Code       *cell.Cell
	Data       *cell.Cell
	Lib        *cell.Cell
}

// Load decodes the bytes of a container file into a StateInit.
func Load(boc []byte) (*StateInit, error) {
	root, err := cell.FromBOC(boc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract container: %w", err)
	}

	s := root.BeginParse()
	si := &StateInit{}

	hasDepth, err := s.LoadBoolBit()
	if err != nil {
		return nil, fmt.Errorf("state init split_depth: %w", err)
	}
	if hasDepth {
		v, err := s.LoadUInt(5)
		if err != nil {
			return nil, fmt.Errorf("state init split_depth: %w", err)
		}
		depth := uint8(v)
		si.SplitDepth = &depth
	}

	hasSpecial, err := s.LoadBoolBit()
	if err != nil {
		return nil, fmt.Errorf("state init special: %w", err)
	}
	if hasSpecial {
		tick, err := s.LoadBoolBit()
		if err != nil {
			return nil, fmt.Errorf("state init special: %w", err)
		}
		tock, err := s.LoadBoolBit()
		if err != nil {
			return nil, fmt.Errorf("state init special: %w", err)
		}
		si.TickTock = &TickTock{Tick: tick, Tock: tock}
	}

	if si.Code, err = loadMaybeRef(s, "code"); err != nil {
		return nil, err
	}
	if si.Data, err = loadMaybeRef(s, "data"); err != nil {
		return nil, err
	}
	if si.Lib, err = loadMaybeRef(s, "library"); err != nil {
		return nil, err
	}
	return si, nil
}

func loadMaybeRef(s *cell.Slice, field string) (*cell.Cell, error) {
	present, err := s.LoadBoolBit()
	if err != nil {
		return nil, fmt.Errorf("state init %s: %w", field, err)
	}
	if !present {
		return nil, nil
	}
	ref, err := s.LoadRefCell()
	if err != nil {
		return nil, fmt.Errorf("state init %s: %w", field, err)
	}
	return ref, nil
}

// DataBOC returns the data cell encoded as a standalone bag of cells. A
// container without a data cell yields an encoded empty cell, which is what
// the ABI machinery expects to start from.
func (si *StateInit) DataBOC() []byte {
	data := si.Data
	if data == nil {
		data = cell.BeginCell().EndCell()
	}
	return data.ToBOC()
}

// ReplaceData swaps the container's data cell for the one encoded in boc.
func (si *StateInit) ReplaceData(boc []byte) error {
	data, err := cell.FromBOC(boc)
	if err != nil {
		return fmt.Errorf("failed to parse replacement data cell: %w", err)
	}
	si.Data = data
	return nil
}

// Cell re-assembles the StateInit cell.
func (si *StateInit) Cell() (*cell.Cell, error) {
	b := cell.BeginCell()

	if err := b.StoreBoolBit(si.SplitDepth != nil); err != nil {
		return nil, fmt.Errorf("state init split_depth: %w", err)
	}
	if si.SplitDepth != nil {
		if err := b.StoreUInt(uint64(*si.SplitDepth), 5); err != nil {
			return nil, fmt.Errorf("state init split_depth: %w", err)
		}
	}

	if err := b.StoreBoolBit(si.TickTock != nil); err != nil {
		return nil, fmt.Errorf("state init special: %w", err)
	}
	if si.TickTock != nil {
		if err := b.StoreBoolBit(si.TickTock.Tick); err != nil {
			return nil, fmt.Errorf("state init special: %w", err)
		}
		if err := b.StoreBoolBit(si.TickTock.Tock); err != nil {
			return nil, fmt.Errorf("state init special: %w", err)
		}
	}

	for _, ref := range []struct {
		name string
		c    *cell.Cell
	}{
		{"code", si.Code},
		{"data", si.Data},
		{"library", si.Lib},
	} {
		if err := b.StoreBoolBit(ref.c != nil); err != nil {
			return nil, fmt.Errorf("state init %s: %w", ref.name, err)
		}
		if ref.c == nil {
			continue
		}
		if err := b.StoreRef(ref.c); err != nil {
			return nil, fmt.Errorf("state init %s: %w", ref.name, err)
		}
	}
	return b.EndCell(), nil
}

// Serialize re-encodes the container to bytes suitable for a .tvc file.
func (si *StateInit) Serialize() ([]byte, error) {
	root, err := si.Cell()
	if err != nil {
		return nil, err
	}
	return root.ToBOC(), nil
}
