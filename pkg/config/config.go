package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhoicas/invoice-engine/pkg/money"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Log     LogConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Billing BillingConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel de log: trace, debug, info, warn, error.
type LogConfig struct {
	Level string
}

// JWTConfig configuración de JWT. Secret vacío deja la API sin autenticación.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BillingConfig valores por defecto para los cálculos cuando la factura no los trae.
type BillingConfig struct {
	Currency     string
	Precision    int // -1 = según la moneda (ISO 4217)
	WorkingScale int
	PriceType    string // net | gross
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, BILLING_CURRENCY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración desde una instancia ya cargada (útil en tests).
// Un entero mal escrito en el entorno es un error, no se reemplaza por el valor por defecto.
func FromViper(v *viper.Viper) (*Config, error) {
	ints := &intReader{v: v}
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "invoice-engine"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: ints.get("JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "invoice-engine"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        ints.get("HTTP_PORT", 8080),
			SwaggerFile: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		Billing: BillingConfig{
			Currency:     getString(v, "BILLING_CURRENCY", "EUR"),
			Precision:    ints.get("BILLING_PRECISION", -1),
			WorkingScale: ints.get("BILLING_WORKING_SCALE", int(money.DefaultWorkingScale)),
			PriceType:    getString(v, "BILLING_PRICE_TYPE", "net"),
		},
	}
	if ints.err != nil {
		return nil, ints.err
	}

	if cfg.Billing.WorkingScale < 0 || cfg.Billing.WorkingScale > int(money.MaxWorkingScale) {
		return nil, fmt.Errorf("BILLING_WORKING_SCALE debe estar entre 0 y %d, se recibió %d", money.MaxWorkingScale, cfg.Billing.WorkingScale)
	}
	if cfg.Billing.Precision < -1 || cfg.Billing.Precision > int(money.MaxPrecision) {
		return nil, fmt.Errorf("BILLING_PRECISION debe estar entre 0 y %d (o -1 para usar la moneda), se recibió %d", money.MaxPrecision, cfg.Billing.Precision)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

// intReader lee enteros y acumula los errores de conversión.
type intReader struct {
	v   *viper.Viper
	err error
}

func (r *intReader) get(key string, def int) int {
	if !r.v.IsSet(key) {
		return def
	}
	switch val := r.v.Get(key).(type) {
	case int, int32, int64:
		return r.v.GetInt(key)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			r.err = errors.Join(r.err, fmt.Errorf("%s debe ser un entero, se recibió %q", key, val))
			return def
		}
		return n
	default:
		r.err = errors.Join(r.err, fmt.Errorf("%s debe ser un entero, se recibió %v", key, val))
		return def
	}
}
