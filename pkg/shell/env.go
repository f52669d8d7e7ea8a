package shell

import (
	"os"
	"regexp"
	"strings"
)

var reEnv = regexp.MustCompile(`\${([^}{]+)}`)

// ReplaceEnvVars - replace ${NAME} and ${NAME:default} with env values,
// unknown names without default stay as is
func ReplaceEnvVars(text string) string {
	return reEnv.ReplaceAllStringFunc(text, func(match string) string {
		key, def, ok := strings.Cut(match[2:len(match)-1], ":")

		if value, vok := os.LookupEnv(key); vok {
			return value
		}

		if ok {
			return def
		}

		return match
	})
}
