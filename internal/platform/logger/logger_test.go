package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeRedactsSecretKeys(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromCore(core)

	log.Info("connecting",
		"postgres_password", "hunter2",
		"dsn", "postgres://u:p@h/db",
		"host", "localhost",
		"extra", map[string]interface{}{"api_token": "abc", "port": 5432},
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["postgres_password"]; got != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", got)
	}
	if got := fields["dsn"]; got != "[REDACTED]" {
		t.Fatalf("dsn not redacted: %v", got)
	}
	if got := fields["host"]; got != "localhost" {
		t.Fatalf("host changed: %v", got)
	}
	extra, ok := fields["extra"].(map[string]interface{})
	if !ok {
		t.Fatalf("extra has type %T", fields["extra"])
	}
	if extra["api_token"] != "[REDACTED]" {
		t.Fatalf("nested token not redacted: %v", extra["api_token"])
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromCore(core).With("service", "RecipeService")
	log.Warn("slow")

	entries := logs.FilterField(zapcore.Field{Key: "service", Type: zapcore.StringType, String: "RecipeService"}).All()
	if len(entries) != 1 {
		t.Fatalf("expected field on child logger entry, got %d entries", len(entries))
	}
}

func TestSanitizeOddKeyValues(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %#v", out)
	}
}
