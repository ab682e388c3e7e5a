package authz

import (
	"sort"
	"strings"

	"inflow/internal/auth"
)

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// MethodAny makes a rule apply regardless of HTTP method.
const MethodAny = "ANY"

// Rule grants access to one route pattern. Roles lists who may pass; a
// PermitAll rule needs no security context at all.
type Rule struct {
	Pattern   string
	Method    string
	Roles     []auth.Role
	PermitAll bool
}

func (r Rule) matches(path, method string) bool {
	if r.Method != "" && r.Method != MethodAny && !strings.EqualFold(r.Method, method) {
		return false
	}
	return MatchPattern(r.Pattern, path)
}

func (r Rule) allows(role auth.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Policy is the immutable, ordered access-control table. Rules are evaluated
// in declaration order and the first match wins; a request matching no rule
// still requires an authenticated caller.
type Policy struct {
	rules []Rule
}

// NewPolicy copies the rules, dropping exact duplicates while preserving the
// original declaration order.
func NewPolicy(rules []Rule) *Policy {
	seen := make(map[string]struct{}, len(rules))
	deduped := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		key := ruleKey(rule)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, rule)
	}
	return &Policy{rules: deduped}
}

func ruleKey(rule Rule) string {
	roles := make([]string, 0, len(rule.Roles))
	for _, role := range rule.Roles {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	parts := []string{rule.Pattern, strings.ToUpper(rule.Method), strings.Join(roles, ",")}
	if rule.PermitAll {
		parts = append(parts, "permitAll")
	}
	return strings.Join(parts, "|")
}

func (p *Policy) Len() int {
	return len(p.rules)
}

// Decide resolves one request against the table. sc is nil when the
// authentication filter attached no identity.
func (p *Policy) Decide(path, method string, sc *auth.SecurityContext) Decision {
	for _, rule := range p.rules {
		if !rule.matches(path, method) {
			continue
		}
		if rule.PermitAll {
			return Allow
		}
		if sc == nil {
			return DenyUnauthenticated
		}
		if rule.allows(sc.Role) {
			return Allow
		}
		return DenyForbidden
	}

	// Absence from the table is not public access.
	if sc == nil {
		return DenyUnauthenticated
	}
	return Allow
}

// Public reports whether the first matching rule permits anonymous access.
// The authentication filter uses it to skip token work on whitelisted paths.
func (p *Policy) Public(path, method string) bool {
	for _, rule := range p.rules {
		if rule.matches(path, method) {
			return rule.PermitAll
		}
	}
	return false
}
