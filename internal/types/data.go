package types

import (
	"fmt"

	"fortio.org/safecast"

	"tao/internal/source"
)

// DataID identifies a user-declared data type. Zero is reserved.
type DataID uint32

const NoDataID DataID = 0

// Variant is one constructor of a data type.
type Variant struct {
	Name source.StringID
	Type *Type
}

// DataDef is a declared data type: its generic parameters and its variants
// in declaration order. A variant's index is its runtime tag.
type DataDef struct {
	Name     source.StringID
	Generics []source.StringID
	Variants []Variant
}

// VariantIndex returns the declaration index of a variant name.
func (d *DataDef) VariantIndex(name source.StringID) (int, bool) {
	if d == nil {
		return -1, false
	}
	for i, v := range d.Variants {
		if v.Name == name {
			return i, true
		}
	}
	return -1, false
}

// DataCtx is the read-only (after construction) registry of data types.
type DataCtx struct {
	defs   []*DataDef
	byName map[source.StringID]DataID
}

func NewDataCtx() *DataCtx {
	return &DataCtx{
		defs:   []*DataDef{nil},
		byName: make(map[source.StringID]DataID),
	}
}

// Declare reserves an ID for name so that mutually recursive declarations
// can refer to each other before their variants are known.
func (c *DataCtx) Declare(name source.StringID, generics []source.StringID) DataID {
	if id, ok := c.byName[name]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(c.defs))
	if err != nil {
		panic(fmt.Errorf("types: data registry overflow: %w", err))
	}
	id := DataID(n)
	c.defs = append(c.defs, &DataDef{Name: name, Generics: generics})
	c.byName[name] = id
	return id
}

// Add registers a complete declaration.
func (c *DataCtx) Add(def DataDef) DataID {
	id := c.Declare(def.Name, def.Generics)
	d := c.defs[id]
	d.Generics = def.Generics
	d.Variants = def.Variants
	return id
}

// SetVariants fills in the variants of a declared data type.
func (c *DataCtx) SetVariants(id DataID, variants []Variant) {
	c.Get(id).Variants = variants
}

// Get returns the declaration for id; unknown ids are a programming error.
func (c *DataCtx) Get(id DataID) *DataDef {
	if id == NoDataID || int(id) >= len(c.defs) {
		panic(fmt.Sprintf("types: unknown data type %d", id))
	}
	return c.defs[id]
}

// Name returns the display name of a data type.
func (c *DataCtx) Name(id DataID) source.StringID {
	return c.Get(id).Name
}

func (c *DataCtx) Lookup(name source.StringID) (DataID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

func (c *DataCtx) Len() int {
	return len(c.defs) - 1
}
