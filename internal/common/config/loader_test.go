package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: unit-converter-skill
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/skill", cfg.Server.SkillPath)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, int64(128*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 150000, cfg.Skill.TimestampTolerance)
	assert.True(t, cfg.Skill.ValidateEnvelope)
	assert.False(t, cfg.Skill.VerifyApplicationID)
	assert.False(t, cfg.ReplayGuard.Enabled)
	assert.Equal(t, 300000, cfg.ReplayGuard.TTL)
	assert.False(t, cfg.Camunda.Enabled)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, "unit-converter-skill", cfg.Observability.ServiceName)
	assert.Equal(t, 1.0, cfg.Observability.SampleRatio)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "0.0.0.0:8080", (ServerConfig{Host: "0.0.0.0", Port: 8080}).Address())
}

func TestLoadFromFile_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  skill_path: /alexa
skill:
  application_id: amzn1.ask.skill.unit
  verify_application_id: true
  timestamp_tolerance: 0
  validate_envelope: false
replay_guard:
  enabled: true
  ttl: 60000
  redis:
    address: localhost:6379
workers:
  voice-skill-dispatch:
    enabled: true
    max_jobs_active: 20
observability:
  sample_ratio: 0.25
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address())
	assert.Equal(t, "/alexa", cfg.Server.SkillPath)
	assert.Equal(t, "amzn1.ask.skill.unit", cfg.Skill.ApplicationID)
	assert.True(t, cfg.Skill.VerifyApplicationID)
	assert.Equal(t, 0, cfg.Skill.TimestampTolerance)
	assert.False(t, cfg.Skill.ValidateEnvelope)
	assert.True(t, cfg.ReplayGuard.Enabled)
	assert.Equal(t, 60*time.Second, GetDuration(cfg.ReplayGuard.TTL))
	assert.Equal(t, 0.25, cfg.Observability.SampleRatio)

	worker := GetWorkerConfig(cfg, "voice-skill-dispatch")
	assert.Equal(t, 20, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SKILL_ID", "amzn1.ask.skill.from-env")
	path := writeConfig(t, `
skill:
  application_id: ${TEST_SKILL_ID}
  verify_application_id: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "amzn1.ask.skill.from-env", cfg.Skill.ApplicationID)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOGGING_LEVEL", "debug")
	path := writeConfig(t, `
server:
  port: 8080
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "verification without application id",
			body:    "skill:\n  verify_application_id: true\n",
			wantErr: "skill.application_id",
		},
		{
			name:    "replay guard without redis",
			body:    "replay_guard:\n  enabled: true\n",
			wantErr: "replay_guard.redis.address",
		},
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "port out of range",
			body:    "server:\n  port: 70000\n",
			wantErr: "server.port",
		},
		{
			name:    "relative skill path",
			body:    "server:\n  skill_path: skill\n",
			wantErr: "server.skill_path",
		},
		{
			name:    "negative tolerance",
			body:    "skill:\n  timestamp_tolerance: -1\n",
			wantErr: "skill.timestamp_tolerance",
		},
		{
			name:    "sample ratio above one",
			body:    "observability:\n  sample_ratio: 2\n",
			wantErr: "observability.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"voice-skill-dispatch": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "voice-skill-dispatch"))
	assert.True(t, IsWorkerEnabled(cfg, "other"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "voice-skill-dispatch").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "other").MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
