package env_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mdm-scriptgen/internal/env"
)

func TestToday(t *testing.T) {
	t.Parallel()

	ctx := env.Context{Now: env.FixedClock(time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC))}
	assert.Equal(t, "2026-01-02", ctx.Today())
	assert.Len(t, env.Context{}.Today(), len(env.DateLayout))
}

func TestScriptSecretsPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$HOME/.mdm_secrets", env.Context{SecretsFile: "~/.mdm_secrets"}.ScriptSecretsPath())
	assert.Equal(t, "/etc/mdm/secrets", env.Context{SecretsFile: "/etc/mdm/secrets"}.ScriptSecretsPath())
}
