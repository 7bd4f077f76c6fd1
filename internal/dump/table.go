package dump

import "fmt"

// Table records a table's name and column order as declared by its
// CREATE TABLE statement. Column order, once established, is fixed for
// the lifetime of the run.
type Table struct {
	Name    string
	Columns []string
	Line    int // 1-based line of the CREATE TABLE statement in the dump
}

// Registry tracks every table seen so far in one conversion run.
// It is owned by the run and passed explicitly through the pipeline,
// so multiple conversions in one process never share state.
type Registry struct {
	tables map[string]*Table
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Add registers a table definition.
// A second CREATE TABLE for the same name is rejected rather than
// silently overwriting rows already attributed to the first one.
func (r *Registry) Add(t *Table) error {
	if prev, exists := r.tables[t.Name]; exists {
		return &SchemaParseError{
			Table:  t.Name,
			Line:   t.Line,
			Reason: fmt.Sprintf("table already defined at line %d", prev.Line),
		}
	}
	r.tables[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Lookup returns the table definition recorded for name, if any
func (r *Registry) Lookup(name string) (*Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Names returns table names in declaration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) Len() int {
	return len(r.order)
}
