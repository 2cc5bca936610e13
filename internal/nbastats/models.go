package nbastats

// Response is the stats.nba.com envelope: every endpoint returns one or more
// result sets of labeled columns plus row tuples.
type Response struct {
	Resource   string      `json:"resource"`
	ResultSets []ResultSet `json:"resultSets"`
}

// ResultSet is one table of results.
type ResultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// Row is a single result row with label-based column access. Lookup by label
// survives the column reordering the upstream does between seasons.
type Row struct {
	cols map[string]int
	vals []interface{}
}

// Rows expands the result set into labeled rows.
func (rs *ResultSet) Rows() []Row {
	cols := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		cols[h] = i
	}

	rows := make([]Row, 0, len(rs.RowSet))
	for _, vals := range rs.RowSet {
		rows = append(rows, Row{cols: cols, vals: vals})
	}
	return rows
}

// Set returns the result set with the given name, or the first one when the
// name is empty or not found (several endpoints rename their primary set
// between API versions).
func (r *Response) Set(name string) *ResultSet {
	if len(r.ResultSets) == 0 {
		return nil
	}
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i]
		}
	}
	return &r.ResultSets[0]
}

// Str returns the column value as a string, or "" when absent.
func (r Row) Str(label string) string {
	v, ok := r.value(label)
	if !ok {
		return ""
	}
	return asString(v)
}

// Int returns the column value as an int, or 0 when absent.
func (r Row) Int(label string) int {
	v, ok := r.value(label)
	if !ok {
		return 0
	}
	return asInt(v)
}

// Float returns the column value as a float64, or 0 when absent.
func (r Row) Float(label string) float64 {
	v, ok := r.value(label)
	if !ok {
		return 0
	}
	return asFloat(v)
}

// Raw returns the untyped column value, or nil when absent.
func (r Row) Raw(label string) interface{} {
	v, _ := r.value(label)
	return v
}

// Has reports whether the row has a non-nil value for the label.
func (r Row) Has(label string) bool {
	v, ok := r.value(label)
	return ok && v != nil
}

func (r Row) value(label string) (interface{}, bool) {
	idx, ok := r.cols[label]
	if !ok || idx >= len(r.vals) {
		return nil, false
	}
	return r.vals[idx], true
}
