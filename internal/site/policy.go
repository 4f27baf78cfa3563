package site

import "fmt"

// Policy decides what happens when a broken reference is found.
type Policy string

const (
	PolicyIgnore Policy = "ignore"
	PolicyLog    Policy = "log"
	PolicyWarn   Policy = "warn"
	PolicyThrow  Policy = "throw"
)

var policies = []Policy{PolicyIgnore, PolicyLog, PolicyWarn, PolicyThrow}

func policyNames() []string {
	names := make([]string, len(policies))
	for i, p := range policies {
		names[i] = string(p)
	}
	return names
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown broken link policy %q (want one of %v)", s, policyNames())
}

// Fatal reports whether the policy aborts the build.
func (p Policy) Fatal() bool {
	return p == PolicyThrow
}
