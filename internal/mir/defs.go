package mir

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tao/internal/source"
)

// DefID identifies one monomorphic instance: a definition name paired with
// concrete type arguments. References to the same (name, args) pair share a
// DefID and therefore a single lowered body.
type DefID uint32

const NoDefID DefID = 0

// Def is the identity behind a DefID.
type Def struct {
	Name source.StringID
	Args []TypeID
}

type defKey struct {
	Name source.StringID
	Args string
}

// DefTable interns (name, args) pairs into DefIDs.
type DefTable struct {
	defs  []Def
	index map[defKey]DefID
}

func NewDefTable() *DefTable {
	return &DefTable{
		defs:  []Def{{}},
		index: make(map[defKey]DefID),
	}
}

// Intern returns the DefID for (name, args), creating it on first use.
// The second result reports whether the pair was already known.
func (t *DefTable) Intern(name source.StringID, args []TypeID) (DefID, bool) {
	key := defKey{Name: name, Args: argsKey(args)}
	if id, ok := t.index[key]; ok {
		return id, true
	}
	n, err := safecast.Conv[uint32](len(t.defs))
	if err != nil {
		panic(fmt.Errorf("mir: def table overflow: %w", err))
	}
	id := DefID(n)
	t.defs = append(t.defs, Def{Name: name, Args: append([]TypeID(nil), args...)})
	t.index[key] = id
	return id, false
}

// Lookup returns the identity behind id.
func (t *DefTable) Lookup(id DefID) (Def, bool) {
	if id == NoDefID || int(id) >= len(t.defs) {
		return Def{}, false
	}
	return t.defs[id], true
}

func (t *DefTable) Len() int {
	return len(t.defs) - 1
}

// Render formats id as `name` or `name<T1, T2>`.
func (t *DefTable) Render(id DefID, typesIn *TypeInterner) string {
	def, ok := t.Lookup(id)
	if !ok {
		return fmt.Sprintf("def#%d", id)
	}
	name, _ := typesIn.Strings().Lookup(def.Name)
	if len(def.Args) == 0 {
		return name
	}
	parts := make([]string, 0, len(def.Args))
	for _, arg := range def.Args {
		parts = append(parts, typesIn.Mangle(arg))
	}
	return name + "<" + strings.Join(parts, ", ") + ">"
}

func argsKey(args []TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	writeIDs(&b, args)
	return b.String()
}
