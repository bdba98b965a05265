//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnType is the logical type of a table column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeDate
	TypeTimestamp
)

// String returns the type name.
func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// ParseColumnType returns the type with the given name.
func ParseColumnType(name string) (ColumnType, error) {
	for _, t := range []ColumnType{TypeText, TypeInt, TypeFloat, TypeBool, TypeDate, TypeTimestamp} {
		if t.String() == name {
			return t, nil
		}
	}
	return TypeText, fmt.Errorf("unknown column type %q", name)
}

// Column describes one column of a generated table.
type Column struct {
	Name string
	Type ColumnType
}

// Column constructors.
func Text(name string) Column      { return Column{Name: name, Type: TypeText} }
func Int(name string) Column       { return Column{Name: name, Type: TypeInt} }
func Float(name string) Column     { return Column{Name: name, Type: TypeFloat} }
func Bool(name string) Column      { return Column{Name: name, Type: TypeBool} }
func Date(name string) Column      { return Column{Name: name, Type: TypeDate} }
func Timestamp(name string) Column { return Column{Name: name, Type: TypeTimestamp} }

// Date and timestamp layouts used for text encoding.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Table is an ordered, fixed-schema collection of rows. A nil cell is NULL.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns []Column) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row. It panics if the row width does not match the schema,
// since that is always a programming error in a builder.
func (t *Table) Append(row ...any) {
	if len(row) != len(t.Columns) {
		panic(fmt.Sprintf("table %s: row has %d values, schema has %d columns",
			t.Name, len(row), len(t.Columns)))
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row i in the named column. It returns nil if the
// column does not exist.
func (t *Table) Value(i int, column string) any {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	return t.Rows[i][idx]
}

// Record encodes row i as strings, one per column.
func (t *Table) Record(i int) []string {
	row := t.Rows[i]
	out := make([]string, len(row))
	for j, v := range row {
		out[j] = FormatValue(t.Columns[j].Type, v)
	}
	return out
}

// FormatValue encodes a cell value as text. NULL becomes the empty string.
func FormatValue(typ ColumnType, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if typ == TypeDate {
			return val.Format(DateLayout)
		}
		return val.Format(TimestampLayout)
	default:
		return fmt.Sprint(val)
	}
}

// ParseValue decodes text produced by FormatValue. The empty string decodes
// to NULL for every type.
func ParseValue(typ ColumnType, s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	switch typ {
	case TypeInt:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return int(v), nil
	case TypeFloat:
		return strconv.ParseFloat(s, 64)
	case TypeBool:
		return strconv.ParseBool(s)
	case TypeDate:
		return time.Parse(DateLayout, s)
	case TypeTimestamp:
		return time.Parse(TimestampLayout, s)
	default:
		return s, nil
	}
}
