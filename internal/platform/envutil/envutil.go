package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

func String(key, def string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", def)
		}
		return def
	}
	if log != nil {
		log.Debug("Environment variable found, using environment", "environment", val)
	}
	return strings.TrimSpace(val)
}

func Int(key string, def int, log *logger.Logger) int {
	raw, ok := lookup(key, log)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default", "env_var", key, "providedVal", raw, "defaultVal", def, "error", err)
		}
		return def
	}
	return i
}

func Float(key string, def float64, log *logger.Logger) float64 {
	raw, ok := lookup(key, log)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as float, using default", "env_var", key, "providedVal", raw, "defaultVal", def, "error", err)
		}
		return def
	}
	return f
}

func Bool(key string, def bool, log *logger.Logger) bool {
	raw, ok := lookup(key, log)
	if !ok {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	if log != nil {
		log.Debug("Environment variable could not be parsed as bool, using default", "env_var", key, "providedVal", raw, "defaultVal", def)
	}
	return def
}

// List splits a comma separated variable, dropping blanks.
func List(key string, def []string, log *logger.Logger) []string {
	raw, ok := lookup(key, log)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func lookup(key string, log *logger.Logger) (string, bool) {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", key)
		}
		return "", false
	}
	return val, true
}
