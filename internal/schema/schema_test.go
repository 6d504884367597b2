package schema

import "testing"

func TestDefaultRegistryKnowsBusinessTables(t *testing.T) {
	reg := Default()
	for _, name := range []string{
		"contracts", "stages", "brigades", "managers", "payment_types",
		"sales_report", "planfact", "adesk_transactions", "users", "roles",
		"permissions",
	} {
		if _, ok := reg.Table(name); !ok {
			t.Errorf("expected table %q in registry", name)
		}
	}
}

func TestDefaultRegistryRejectsUnknownTable(t *testing.T) {
	reg := Default()
	for _, name := range []string{"sessions", "pg_catalog", "users; drop table users"} {
		if _, ok := reg.Table(name); ok {
			t.Errorf("table %q must not be in registry", name)
		}
	}
}

func TestOrderExpr(t *testing.T) {
	reg := Default()
	contracts, _ := reg.Table("contracts")

	cases := []struct {
		expr    string
		want    string
		wantErr bool
	}{
		{expr: "contract_name", want: "contract_name asc"},
		{expr: "contract_date desc", want: "contract_date desc"},
		{expr: "id desc", want: "id desc"},
		{expr: "Contract_Name ASC", want: "contract_name asc"},
		{expr: "", wantErr: true},
		{expr: "no_such_column", wantErr: true},
		{expr: "contract_name sideways", wantErr: true},
		{expr: "contract_name; drop table contracts", wantErr: true},
	}
	for _, tc := range cases {
		got, err := contracts.OrderExpr(tc.expr)
		if tc.wantErr {
			if err == nil {
				t.Errorf("OrderExpr(%q) expected error, got %q", tc.expr, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("OrderExpr(%q) unexpected error: %v", tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("OrderExpr(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestSensitiveUserColumnsNotWritable(t *testing.T) {
	reg := Default()
	users, _ := reg.Table("users")

	for _, name := range []string{"password", "last_login"} {
		c, ok := users.Column(name)
		if !ok {
			t.Fatalf("expected column users.%s", name)
		}
		if c.Writable {
			t.Errorf("users.%s must not be writable through the record store", name)
		}
	}

	username, _ := users.Column("username")
	if !username.Writable {
		t.Errorf("users.username should be writable")
	}
}
