package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/config"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const otherFingerprint = "00:11:22:33:44:55:66:77:88:99:AA:BB:CC:DD:EE:FF:00:11:22:33:44:55:66:77:88:99:AA:BB:CC:DD:EE:FF"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samplepay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	// when:
	cfg, err := config.Load("")

	// then:
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, constants.DefaultMethodName, cfg.Payment.MethodName)
	assert.False(t, cfg.Payment.AllowUntrustedIsReadyToPay)
	assert.Equal(t, config.RegistryFile, cfg.Registry.Backend)
	assert.Equal(t, 5*time.Second, cfg.UpdateService.Timeout)
	assert.Equal(t, uint32(5), cfg.UpdateService.Breaker.ConsecutiveFailures)
	assert.Equal(t, time.Hour, cfg.Checkout.SnapshotTTL)

	// and:
	trusted, err := cfg.Trusted()
	require.NoError(t, err)
	assert.Equal(t, callerauth.DefaultTrustedCallers(), trusted)
}

func TestLoadFile(t *testing.T) {
	// given:
	path := writeConfig(t, `
http:
  address: 127.0.0.1:9090
logging:
  level: DEBUG
  handler: text
payment:
  allow_untrusted_is_ready_to_pay: true
trusted_callers:
  - package: org.chromium.chrome
    fingerprint: `+otherFingerprint+`
registry:
  backend: postgres
postgres:
  dsn: postgres://samplepay@localhost/samplepay
  max_connections: 8
update_service:
  timeout: 750ms
`)

	// when:
	cfg, err := config.Load(path)

	// then:
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Address)
	assert.True(t, cfg.Payment.AllowUntrustedIsReadyToPay)
	assert.Equal(t, config.RegistryPostgres, cfg.Registry.Backend)
	assert.Equal(t, int32(8), cfg.Postgres.MaxConnections)
	assert.Equal(t, 750*time.Millisecond, cfg.UpdateService.Timeout)

	// and:
	trusted, err := cfg.Trusted()
	require.NoError(t, err)
	assert.Equal(t, []callerauth.TrustedCaller{{
		PackageName: callerauth.PackageChromium,
		Fingerprint: callerauth.MustParseFingerprint(otherFingerprint),
	}}, trusted)

	// and:
	var out bytes.Buffer
	cfg.NewLogger(&out).Debug("visible")
	assert.Contains(t, out.String(), "visible")
}

func TestEnvironmentOverrides(t *testing.T) {
	// given:
	t.Setenv("SAMPLEPAY_HTTP_ADDRESS", ":7070")
	t.Setenv("SAMPLEPAY_REDIS_ADDRESS", "localhost:6379")
	t.Setenv("SAMPLEPAY_CHECKOUT_SNAPSHOT_TTL", "15m")

	// when:
	cfg, err := config.Load("")

	// then:
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Address)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 15*time.Minute, cfg.Checkout.SnapshotTTL)
}

func TestInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"unknown log level": `
logging:
  level: verbose
`,
		"unknown registry backend": `
registry:
  backend: ldap
`,
		"postgres without dsn": `
registry:
  backend: postgres
`,
		"malformed fingerprint": `
trusted_callers:
  - package: com.android.chrome
    fingerprint: F0:FD
`,
		"trusted caller without package": `
trusted_callers:
  - fingerprint: ` + otherFingerprint + `
`,
		"package listed twice": `
trusted_callers:
  - package: com.android.chrome
    fingerprint: ` + otherFingerprint + `
  - package: com.android.chrome
    fingerprint: ` + callerauth.ChromeReleaseFingerprint + `
`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			// when:
			_, err := config.Load(writeConfig(t, content))

			// then:
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestMissingFile(t *testing.T) {
	// when:
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// then:
	require.Error(t, err)
}
