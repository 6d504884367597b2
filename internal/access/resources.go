// Package access decides, for every resource and role, whether an operation
// is allowed and which fields must be hidden from the response.
package access

// Resource keys. The set is closed: permission rows, endpoint routing and the
// frontend payload all use these exact strings.
const (
	ResourceContracts   = "contracts"
	ResourceStages      = "stages"
	ResourceBrigades    = "brigades"
	ResourceSettings    = "settings"
	ResourcePlanfact    = "planfact"
	ResourceSalesData   = "sales_data"
	ResourceSalesReport = "sales_report"
	ResourceDashboard   = "dashboard"
	ResourceAccess      = "access"
)

// Resources lists every resource, in the order permission matrices are
// displayed. Creating a role creates one permission row per entry.
var Resources = []string{
	ResourceContracts,
	ResourceStages,
	ResourceBrigades,
	ResourceSettings,
	ResourcePlanfact,
	ResourceSalesData,
	ResourceSalesReport,
	ResourceDashboard,
	ResourceAccess,
}

// HideableFields declares, per resource, which fields a role may be
// configured to not see. hidden_fields entries outside this set are ignored.
var HideableFields = map[string][]string{
	ResourceContracts: {
		"contract_amount", "final_amount", "profit", "margin_percent",
		"manager_percent", "manager_zp", "manager_paid", "manager_balance",
		"sop_percent", "sop_zp", "sop_paid", "sop_balance",
	},
	ResourceStages:      {"amount"},
	ResourceSalesData:   {"revenue", "profit", "margin", "average_revenue"},
	ResourceSalesReport: {"profit", "margin"},
}

func ValidResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}

// Action is one of the four capabilities a permission row carries.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)
