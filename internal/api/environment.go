package api

import (
	"fmt"
	"sort"
	"strings"
)

// Environment selects which backend host the client talks to
type Environment string

const (
	EnvProd  Environment = "prod"
	EnvLocal Environment = "local"
)

var baseURLs = map[Environment]string{
	EnvProd:  "https://detectabb-backend.onrender.com",
	EnvLocal: "http://localhost:5000",
}

// BaseURL resolves the backend host. A non-empty override wins over the environment.
func BaseURL(env Environment, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return strings.TrimRight(override, "/"), nil
	}
	if env == "" {
		env = EnvProd
	}
	url, ok := baseURLs[Environment(strings.ToLower(string(env)))]
	if !ok {
		return "", fmt.Errorf("unknown environment %q (valid: %s)", env, strings.Join(Environments(), ", "))
	}
	return url, nil
}

// Environments lists the known environment names
func Environments() []string {
	names := make([]string, 0, len(baseURLs))
	for env := range baseURLs {
		names = append(names, string(env))
	}
	sort.Strings(names)
	return names
}
