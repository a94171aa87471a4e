package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR}, ${VAR:-default}, and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:[-?][^}]*)?\}`)

// substituteEnvVars replaces ${VAR_NAME} references with environment
// variable values. ${VAR:-default} falls back to the default when unset;
// ${VAR:?message} and plain ${VAR} record the variable as missing when
// unset. Returns the substituted content and the missing variable names.
func substituteEnvVars(content string) (string, []string) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, modifier := groups[1], groups[2]

		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}

		if strings.HasPrefix(modifier, ":-") {
			return modifier[2:]
		}
		if strings.HasPrefix(modifier, ":?") {
			missing = append(missing, name+": "+modifier[2:])
			return match
		}

		missing = append(missing, name)
		return match
	})

	return result, missing
}
