package cellblocks

import (
	"fmt"

	"github.com/cellform/cellform/cellarray"
)

// BlockID is the N-tuple of per-axis block coordinates of one stored block.
type BlockID []int

func (id BlockID) Copy() (r BlockID) {
	r = make(BlockID, len(id))
	copy(r, id)
	return
}

func (id BlockID) Equal(o BlockID) bool {
	if len(id) != len(o) {
		return false
	}
	for i := range id {
		if id[i] != o[i] {
			return false
		}
	}
	return true
}

func (id BlockID) String() string { return fmt.Sprint([]int(id)) }

// Blocked is a per-cell array partitioned along each axis into blocks. Only a
// subset of block coordinates is stored explicitly; a coordinate absent from
// the stored set is exactly zero when consumed by arithmetic. A Blocked is
// produced immutably by each arithmetic or reduction step and never mutated
// afterwards; Axes may be shared read-only with sibling values derived from
// the same inputs, while blocks and ids are exclusively owned.
type Blocked struct {
	Axes   []Axis
	blocks []cellarray.Array
	ids    []BlockID
}

func (b Blocked) Rank() int    { return len(b.Axes) }
func (b Blocked) NStored() int { return len(b.blocks) }

func (b Blocked) Block(i int) cellarray.Array { return b.blocks[i] }
func (b Blocked) ID(i int) BlockID            { return b.ids[i] }

// IDs returns a copy of the stored block coordinates.
func (b Blocked) IDs() (r []BlockID) {
	r = make([]BlockID, len(b.ids))
	for i, id := range b.ids {
		r[i] = id.Copy()
	}
	return
}

// Find returns the stored position of the block at id, if present.
func (b Blocked) Find(id BlockID) (i int, ok bool) {
	for i, bid := range b.ids {
		if bid.Equal(id) {
			return i, true
		}
	}
	return -1, false
}

// StructNonzero reports whether every axis sub-range referenced by id has
// positive length for this cell. Structural nonzero-ness is necessary but not
// sufficient for a block to be stored.
func (b Blocked) StructNonzero(id BlockID) bool {
	for ax, f := range id {
		if b.Axes[ax][f] == 0 {
			return false
		}
	}
	return true
}

// BlockShape is the dense shape of the block at id: the per-axis sub-range
// lengths it references.
func (b Blocked) BlockShape(id BlockID) (shape []int) {
	shape = make([]int, len(id))
	for ax, f := range id {
		shape[ax] = b.Axes[ax][f]
	}
	return
}

// Builder accumulates blocks during a dispatch scan, then freezes into an
// immutable Blocked. It pre-sizes by the lattice upper bound so the scan
// never re-allocates.
type Builder struct {
	axes   []Axis
	blocks []cellarray.Array
	ids    []BlockID
}

func NewBuilder(axes []Axis) *Builder {
	var (
		cap_ = latticeSize(axes)
	)
	return &Builder{
		axes:   axes,
		blocks: make([]cellarray.Array, 0, cap_),
		ids:    make([]BlockID, 0, cap_),
	}
}

// Append stores blk under id. The id must be unique, structurally nonzero,
// and blk's shape must equal the Cartesian product of the referenced axis
// sub-range lengths.
func (bld *Builder) Append(id BlockID, blk cellarray.Array) (err error) {
	if len(id) != len(bld.axes) {
		return fmt.Errorf("block id %v has rank %d, axes have rank %d", id, len(id), len(bld.axes))
	}
	for ax, f := range id {
		if f < 0 || f >= bld.axes[ax].NBlocks() {
			return fmt.Errorf("block id %v out of range on axis %d (have %d blocks)", id, ax, bld.axes[ax].NBlocks())
		}
		if bld.axes[ax][f] == 0 {
			return fmt.Errorf("block id %v references a structurally empty range on axis %d", id, ax)
		}
		if blk.Shape[ax] != bld.axes[ax][f] {
			return fmt.Errorf("block id %v axis %d: block length %d, sub-range length %d", id, ax, blk.Shape[ax], bld.axes[ax][f])
		}
	}
	for _, bid := range bld.ids {
		if bid.Equal(id) {
			return fmt.Errorf("duplicate block id %v", id)
		}
	}
	bld.blocks = append(bld.blocks, blk)
	bld.ids = append(bld.ids, id.Copy())
	return
}

// Build freezes the accumulated blocks into an immutable Blocked. The builder
// must not be reused afterwards.
func (bld *Builder) Build() Blocked {
	return Blocked{
		Axes:   bld.axes,
		blocks: bld.blocks,
		ids:    bld.ids,
	}
}

// NewBlocked validates and freezes a block collection in one step. An empty
// collection is valid and represents the additive identity.
func NewBlocked(axes []Axis, ids []BlockID, blocks []cellarray.Array) (b Blocked, err error) {
	if len(ids) != len(blocks) {
		err = fmt.Errorf("got %d block ids for %d blocks", len(ids), len(blocks))
		return
	}
	bld := NewBuilder(axes)
	for i, id := range ids {
		if err = bld.Append(id, blocks[i]); err != nil {
			return
		}
	}
	b = bld.Build()
	return
}
