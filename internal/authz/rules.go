package authz

import (
	"net/http"

	"inflow/internal/auth"
)

// anyStaff is the role set granted on the regular HR routes: every
// authenticated employee may reach them, handlers narrow further where a
// record belongs to someone else.
var anyStaff = []auth.Role{auth.RoleEmployee, auth.RoleHR, auth.RoleManager, auth.RoleAdmin}

func permit(pattern, method string) Rule {
	return Rule{Pattern: pattern, Method: method, PermitAll: true}
}

func staff(pattern, method string) Rule {
	return Rule{Pattern: pattern, Method: method, Roles: anyStaff}
}

func staffAllMethods(pattern string) []Rule {
	return []Rule{
		staff(pattern, http.MethodGet),
		staff(pattern, http.MethodPost),
		staff(pattern, http.MethodDelete),
		staff(pattern, http.MethodPut),
		staff(pattern, http.MethodPatch),
	}
}

// DefaultRules is the server's access-control table. It is data, not code:
// one row per (pattern, method, roles), evaluated top to bottom, the first
// match deciding. Anything not listed still requires authentication.
func DefaultRules() []Rule {
	rules := []Rule{
		permit("/actuator/health", http.MethodGet),
		permit("/api/login", http.MethodPost),
		permit("/api/auth/**", http.MethodPost),
	}

	rules = append(rules, staffAllMethods("/api/employees/**")...)
	rules = append(rules, staffAllMethods("/api/appointments/**")...)
	rules = append(rules,
		staff("/api/companies/**", http.MethodGet),
		staff("/api/forms/**", http.MethodGet),
		staff("/api/validations/**", http.MethodGet),
	)

	rules = append(rules,
		staff("/api/departments/hierarchy/**", http.MethodGet),
		staff("/api/departments/search/members/**", http.MethodGet),
		staff("/api/departments/search/departments/**", http.MethodGet),
		staff("/api/departments/dropdown/**", http.MethodGet),
		staff("/api/departments/my-department/*/members/**", http.MethodGet),
		staff("/api/departments/add-department/**", http.MethodPost),
		staff("/api/departments/**", http.MethodDelete),
		staff("/api/departments/**", http.MethodPatch),
	)

	rules = append(rules, staffAllMethods("/api/attendance-requests/**")...)
	rules = append(rules, staffAllMethods("/api/vacations/**")...)

	rules = append(rules,
		staff("/api/evaluations/taskType/**", http.MethodGet),
		staff("/api/evaluations/taskType/create", http.MethodPost),
		staff("/api/evaluations/taskType/**", http.MethodPatch),
		staff("/api/evaluations/taskType/**", http.MethodDelete),
		staff("/api/evaluations/taskItem/**", http.MethodGet),
		staff("/api/evaluations/taskEval/**", http.MethodGet),
		staff("/api/evaluations/taskEval/**", http.MethodPost),
		staff("/api/evaluations/taskEval/**", http.MethodPatch),
		staff("/api/evaluations/grade/**", http.MethodGet),
		staff("/api/evaluations/feedback/**", http.MethodGet),
		staff("/api/evaluations/feedback/**", http.MethodPost),
		staff("/api/evaluations/feedback/**", http.MethodPatch),
		staff("/api/evaluations/evaluationPolicy/policyCreation", http.MethodPost),
		staff("/api/evaluations/evaluationPolicy/**", http.MethodGet),
		staff("/api/evaluations/evaluationPolicy/**", http.MethodPatch),
		staff("/api/evaluations/evaluationPolicy/**", http.MethodDelete),
		staff("/api/evaluations/evaluation/**", http.MethodGet),
		staff("/api/evaluations/taskTypeEval/**", http.MethodGet),
	)

	rules = append(rules,
		staff("/api/payrolls/details", http.MethodGet),
		staff("/api/payrolls/all", http.MethodGet),
		staff("/api/payrolls/period", http.MethodGet),
		staff("/api/payrolls/list", MethodAny),
		staff("/api/payrolls/**", http.MethodGet),
		staff("/api/payrolls/**", http.MethodPost),
		staff("/api/payrolls/**", http.MethodDelete),
		staff("/api/payrolls/**", http.MethodPut),
		staff("/api/payrolls/**", http.MethodPatch),
		staff("/api/non-taxable-payrolls/**", http.MethodGet),
		staff("/api/non-taxable-payrolls/**", http.MethodPost),
		staff("/api/non-taxable-payrolls/**", http.MethodPut),
		staff("/api/irregular-allowances/**", http.MethodGet),
		staff("/api/irregular-allowances/**", http.MethodPost),
		staff("/api/irregular-allowances/**", http.MethodPut),
		staff("/api/severance-pay/estimate/**", http.MethodGet),
		staff("/api/severance-pay/calculate/**", http.MethodGet),
	)

	rules = append(rules, staffAllMethods("/api/statistics/**")...)

	return rules
}
