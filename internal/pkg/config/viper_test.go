package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(`
otp:
  expiry_minutes: 7
  delivery:
    driver: mail
admin:
  phones:
    - "9000000001"
    - " 9000000002 "
mail:
  port: 2525
jwt:
  audiences: "web, mobile,,"
secret: aGVsbG8=
`))
	require.NoError(t, err)

	assert.Equal(t, 7*time.Minute, cfg.GetMinute("otp.expiry_minutes"))
	assert.Equal(t, "mail", cfg.GetString("otp.delivery.driver"))
	assert.Equal(t, []string{"9000000001", "9000000002"}, cfg.GetArray("admin.phones"))
	assert.Equal(t, []string{"web", "mobile"}, cfg.GetArray("jwt.audiences"))
	assert.Equal(t, 2525, cfg.GetInt("mail.port"))
	assert.Equal(t, []byte("hello"), cfg.GetBinary("secret"))
	assert.Empty(t, cfg.GetArray("missing.key"))
}

func TestNewViperFromBytes_Defaults(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("app:\n  name: mediflow\n"))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.GetMinute("otp.expiry_minutes"))
	assert.Equal(t, 5, cfg.GetInt("otp.throttle.max"))
	assert.Equal(t, time.Hour, cfg.GetHour("otp.throttle.window_hours"))
	assert.Contains(t, cfg.GetArray("instrument.log_mask_fields"), "otp")
}

func TestNewViperFromBytes_EnvOverride(t *testing.T) {
	t.Setenv("MEDIFLOW_OTP_THROTTLE_MAX", "3")

	cfg, err := NewViperFromBytes("yaml", []byte("otp:\n  throttle:\n    max: 9\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.GetInt("otp.throttle.max"))
}

func TestNewViperFromBytes_TypeRequired(t *testing.T) {
	_, err := NewViperFromBytes(" ", nil)
	assert.ErrorIs(t, err, ErrConfigTypeRequired)
}

func TestNewViper(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("app:\n  tz: Asia/Kolkata\n"), 0o600))

	cfg, err := NewViper(file)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	assert.Equal(t, "Asia/Kolkata", cfg.GetString("app.tz"))
}
