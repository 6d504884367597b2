// Package schema is the whitelist registry the record store consults before
// any identifier reaches SQL text. Table and column names live here and only
// here; request payloads can never introduce a new identifier.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeInt     ColumnType = "int"
	TypeDecimal ColumnType = "decimal"
	TypeDate    ColumnType = "date"
	TypeBool    ColumnType = "bool"
	TypeRef     ColumnType = "ref" // foreign key column
)

type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
	// Writable=false keeps a column out of generic create/update payloads
	// (e.g. password hashes, which only the user service may set).
	Writable bool
}

type Table struct {
	Name    string
	columns []Column
	byName  map[string]Column
}

func (t *Table) Columns() []Column { return t.columns }

func (t *Table) Column(name string) (Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// OrderExpr validates a "column" or "column desc" ordering expression against
// the table's columns and returns it in normalized form.
func (t *Table) OrderExpr(expr string) (string, error) {
	parts := strings.Fields(strings.ToLower(expr))
	if len(parts) == 0 || len(parts) > 2 {
		return "", fmt.Errorf("invalid order expression %q", expr)
	}
	col := parts[0]
	if col != "id" {
		if _, ok := t.byName[col]; !ok {
			return "", fmt.Errorf("unknown order column %q", col)
		}
	}
	dir := "asc"
	if len(parts) == 2 {
		if parts[1] != "asc" && parts[1] != "desc" {
			return "", fmt.Errorf("invalid order direction %q", parts[1])
		}
		dir = parts[1]
	}
	return col + " " + dir, nil
}

type Registry struct {
	tables map[string]*Table
}

func (r *Registry) Table(name string) (*Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

func (r *Registry) TableNames() []string {
	names := make([]string, 0, len(r.tables))
	for n := range r.tables {
		names = append(names, n)
	}
	return names
}

var identRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func newTable(name string, cols ...Column) *Table {
	if !identRe.MatchString(name) {
		panic("schema: invalid table name " + name)
	}
	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		if !identRe.MatchString(c.Name) {
			panic("schema: invalid column name " + name + "." + c.Name)
		}
		if _, dup := byName[c.Name]; dup {
			panic("schema: duplicate column " + name + "." + c.Name)
		}
		byName[c.Name] = c
	}
	return &Table{Name: name, columns: cols, byName: byName}
}

func col(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ, Nullable: true, Writable: true}
}

func required(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ, Nullable: false, Writable: true}
}

func protected(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ, Nullable: false, Writable: false}
}

func dictionary(name string) *Table {
	return newTable(name,
		required("name", TypeText),
		col("is_active", TypeBool),
	)
}

// Default builds the fixed registry. Identifiers are validated at
// construction, so a bad entry fails at startup rather than at request time.
func Default() *Registry {
	tables := []*Table{
		newTable("contracts",
			col("contract_name", TypeText),
			col("contract_number", TypeText),
			col("contract_date", TypeDate),
			col("manager_id", TypeRef),
			col("project_id", TypeRef),
			col("payment_type_id", TypeRef),
			col("complectation_id", TypeRef),
			col("escrow_agent_id", TypeRef),
			col("source_id", TypeRef),
			col("contractor_id", TypeRef),
			col("prorab_id", TypeRef),
			col("ipoteka_status_id", TypeRef),
			col("contract_amount", TypeDecimal),
			col("final_amount", TypeDecimal),
			col("profit", TypeDecimal),
			col("margin_percent", TypeDecimal),
			col("manager_percent", TypeDecimal),
			col("manager_zp", TypeDecimal),
			col("manager_paid", TypeDecimal),
			col("manager_balance", TypeDecimal),
			col("sop_percent", TypeDecimal),
			col("sop_zp", TypeDecimal),
			col("sop_paid", TypeDecimal),
			col("sop_balance", TypeDecimal),
			col("ar_ready", TypeBool),
			col("kr_ready", TypeBool),
			col("estimate_ready", TypeBool),
			col("foundation", TypeBool),
			col("comment", TypeText),
			col("is_active", TypeBool),
		),
		newTable("stages",
			col("contract_id", TypeRef),
			col("stage_type_id", TypeRef),
			col("brigade_id", TypeRef),
			col("name", TypeText),
			col("amount", TypeDecimal),
			col("start_date", TypeDate),
			col("end_date", TypeDate),
			col("status", TypeText),
			col("comment", TypeText),
		),
		newTable("brigades",
			required("name", TypeText),
			col("brigade_type_id", TypeRef),
			col("phone", TypeText),
			col("comment", TypeText),
			col("is_active", TypeBool),
		),
		newTable("managers",
			required("name", TypeText),
			col("bitrix_id", TypeText),
			col("is_active", TypeBool),
		),
		dictionary("brigade_types"),
		dictionary("payment_types"),
		dictionary("escrow_agents"),
		dictionary("sources"),
		dictionary("projects"),
		dictionary("complectation"),
		dictionary("stage_types"),
		dictionary("contractors"),
		dictionary("prorabs"),
		dictionary("ipoteka_status"),
		newTable("sales_report",
			required("manager_id", TypeRef),
			required("year", TypeInt),
			required("month", TypeInt),
			col("leads", TypeInt),
			col("meetings", TypeInt),
			col("contracts_count", TypeInt),
			col("revenue", TypeDecimal),
			col("profit", TypeDecimal),
			col("margin", TypeDecimal),
			col("average_revenue", TypeDecimal),
			col("leads_in_work", TypeInt),
		),
		newTable("planfact",
			required("year", TypeInt),
			required("month", TypeInt),
			col("plan_amount", TypeDecimal),
			col("fact_amount", TypeDecimal),
			col("comment", TypeText),
		),
		newTable("adesk_transactions",
			required("external_id", TypeText),
			col("date", TypeDate),
			col("amount", TypeDecimal),
			col("description", TypeText),
			col("category", TypeText),
			col("contractor", TypeText),
			col("account", TypeText),
			col("type", TypeText),
		),
		newTable("adesk_settings",
			required("setting_key", TypeText),
			col("setting_value", TypeText),
		),
		newTable("users",
			required("username", TypeText),
			protected("password", TypeText),
			col("full_name", TypeText),
			required("role_id", TypeRef),
			col("telegram_id", TypeText),
			col("is_active", TypeBool),
			protected("last_login", TypeDate),
		),
		newTable("roles",
			required("name", TypeText),
			required("code", TypeText),
			col("description", TypeText),
			col("is_active", TypeBool),
		),
		newTable("permissions",
			required("role_id", TypeRef),
			required("resource", TypeText),
			col("can_view", TypeBool),
			col("can_create", TypeBool),
			col("can_edit", TypeBool),
			col("can_delete", TypeBool),
			col("hidden_fields", TypeText),
		),
	}

	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		if _, dup := byName[t.Name]; dup {
			panic("schema: duplicate table " + t.Name)
		}
		byName[t.Name] = t
	}
	return &Registry{tables: byName}
}
