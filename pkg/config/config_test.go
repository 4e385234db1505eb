package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-engine/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "invoice-engine", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "EUR", cfg.Billing.Currency)
	assert.Equal(t, -1, cfg.Billing.Precision)
	assert.Equal(t, 10, cfg.Billing.WorkingScale)
	assert.Equal(t, "net", cfg.Billing.PriceType)
	assert.Empty(t, cfg.JWT.Secret)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("BILLING_CURRENCY", "JPY")
	v.Set("BILLING_PRECISION", 0)
	v.Set("BILLING_PRICE_TYPE", "gross")
	v.Set("JWT_SECRET", "s3cr3t")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "JPY", cfg.Billing.Currency)
	assert.Equal(t, 0, cfg.Billing.Precision)
	assert.Equal(t, "gross", cfg.Billing.PriceType)
	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
}

func TestFromViper_EscalaNegativa(t *testing.T) {
	v := viper.New()
	v.Set("BILLING_WORKING_SCALE", -1)
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BILLING_WORKING_SCALE", "12")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 12, cfg.Billing.WorkingScale)
}

func TestFromViper_EnteroMalEscrito(t *testing.T) {
	v := viper.New()
	v.Set("BILLING_PRECISION", "dos")
	v.Set("HTTP_PORT", "80a")

	_, err := config.FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BILLING_PRECISION")
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestFromViper_FueraDeRango(t *testing.T) {
	for key, val := range map[string]string{
		"BILLING_PRECISION":     "19",
		"BILLING_WORKING_SCALE": "65",
	} {
		v := viper.New()
		v.Set(key, val)
		_, err := config.FromViper(v)
		assert.Error(t, err, key)
	}

	t.Setenv("BILLING_WORKING_SCALE", "4294967306")
	_, err := config.Load()
	assert.Error(t, err, "no se trunca a int32")
}
