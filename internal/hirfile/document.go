package hirfile

// Document is the serialized form of a HIR program.
type Document struct {
	Format string `toml:"format" yaml:"format" msgpack:"format"`
	Entry  string `toml:"entry,omitempty" yaml:"entry,omitempty" msgpack:"entry,omitempty"`
	Data   []Data `toml:"data,omitempty" yaml:"data,omitempty" msgpack:"data,omitempty"`
	Defs   []Def  `toml:"defs,omitempty" yaml:"defs,omitempty" msgpack:"defs,omitempty"`
}

// Data declares a data type. Variant order fixes the runtime tags.
type Data struct {
	Name     string    `toml:"name" yaml:"name" msgpack:"name"`
	Generics []string  `toml:"generics,omitempty" yaml:"generics,omitempty" msgpack:"generics,omitempty"`
	Variants []Variant `toml:"variants" yaml:"variants" msgpack:"variants"`
}

// Variant is one constructor. An empty Type means the unit type.
type Variant struct {
	Name string `toml:"name" yaml:"name" msgpack:"name"`
	Type string `toml:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
}

type Def struct {
	Name     string   `toml:"name" yaml:"name" msgpack:"name"`
	Generics []string `toml:"generics,omitempty" yaml:"generics,omitempty" msgpack:"generics,omitempty"`
	Body     *Node    `toml:"body" yaml:"body" msgpack:"body"`
}

// Node is a typed expression. Kind selects which fields are read:
//
//	literal    Value
//	local      Name
//	global     Name, TypeArgs
//	intrinsic  Op, Items (arguments)
//	unary      Op, Items[0]
//	binary     Op, Items[0], Items[1]
//	tuple      Items
//	record     Fields
//	list       Items
//	apply      Items[0] (function), Items[1] (argument)
//	access     Items[0] (record), Name (field)
//	update     Items[0] (record), Name (field), Items[1] (value)
//	func       Param, Body
//	match      Items[0] (scrutinee), Arms
//	construct  Variant, Items[0] (payload, unit when absent)
//
// Type is a type expression and is required except on literals.
type Node struct {
	Kind     string       `toml:"kind" yaml:"kind" msgpack:"kind"`
	Type     string       `toml:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Name     string       `toml:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Op       string       `toml:"op,omitempty" yaml:"op,omitempty" msgpack:"op,omitempty"`
	Variant  string       `toml:"variant,omitempty" yaml:"variant,omitempty" msgpack:"variant,omitempty"`
	TypeArgs []string     `toml:"type_args,omitempty" yaml:"type_args,omitempty" msgpack:"type_args,omitempty"`
	Value    *Literal     `toml:"value" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Items    []*Node      `toml:"items,omitempty" yaml:"items,omitempty" msgpack:"items,omitempty"`
	Fields   []FieldValue `toml:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
	Param    *Pattern     `toml:"param" yaml:"param,omitempty" msgpack:"param,omitempty"`
	Body     *Node        `toml:"body" yaml:"body,omitempty" msgpack:"body,omitempty"`
	Arms     []Arm        `toml:"arms,omitempty" yaml:"arms,omitempty" msgpack:"arms,omitempty"`
}

// Literal holds exactly one constant. TOML tags on pointer fields omit
// omitempty so zero values are still written.
type Literal struct {
	Unit bool     `toml:"unit,omitempty" yaml:"unit,omitempty" msgpack:"unit,omitempty"`
	Bool *bool    `toml:"bool" yaml:"bool,omitempty" msgpack:"bool,omitempty"`
	Num  *float64 `toml:"num" yaml:"num,omitempty" msgpack:"num,omitempty"`
	Char string   `toml:"char,omitempty" yaml:"char,omitempty" msgpack:"char,omitempty"`
	Str  *string  `toml:"str" yaml:"str,omitempty" msgpack:"str,omitempty"`
}

type FieldValue struct {
	Name  string `toml:"name" yaml:"name" msgpack:"name"`
	Value *Node  `toml:"value" yaml:"value" msgpack:"value"`
}

type Arm struct {
	Pattern *Pattern `toml:"pattern" yaml:"pattern" msgpack:"pattern"`
	Body    *Node    `toml:"body" yaml:"body" msgpack:"body"`
}

// Pattern is a typed binding. Kind selects which fields are read:
//
//	wildcard   Name binds the value when set
//	literal    Value
//	tuple      Items
//	record     Fields; omitted fields match anything when Type is a record
//	list       Items
//	front      Items, Tail
//	construct  Data (or a data Type), Variant, Items[0] (wildcard when absent)
//
// Name binds the whole matched value on every kind.
type Pattern struct {
	Kind    string         `toml:"kind" yaml:"kind" msgpack:"kind"`
	Name    string         `toml:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type    string         `toml:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Data    string         `toml:"data,omitempty" yaml:"data,omitempty" msgpack:"data,omitempty"`
	Variant string         `toml:"variant,omitempty" yaml:"variant,omitempty" msgpack:"variant,omitempty"`
	Tail    string         `toml:"tail,omitempty" yaml:"tail,omitempty" msgpack:"tail,omitempty"`
	Value   *Literal       `toml:"value" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Items   []*Pattern     `toml:"items,omitempty" yaml:"items,omitempty" msgpack:"items,omitempty"`
	Fields  []FieldPattern `toml:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
}

type FieldPattern struct {
	Name    string   `toml:"name" yaml:"name" msgpack:"name"`
	Pattern *Pattern `toml:"pattern" yaml:"pattern" msgpack:"pattern"`
}
