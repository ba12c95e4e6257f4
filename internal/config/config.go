package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Printer   PrinterConfig
	Email     EmailConfig
	SMS       SMSConfig
	Billing   BillingConfig
	LowStock  LowStockConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// RedisConfig is optional: with an empty Addr the charge-rule cache is
// skipped and payments serialize on an in-process lock.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	ChargeRuleTTL  time.Duration
	LockTTL        time.Duration
	LockRetryDelay time.Duration
}

// KafkaConfig is optional: with no brokers events are dropped.
type KafkaConfig struct {
	Brokers      []string
	PaymentTopic string
	StockTopic   string
	WriteTimeout time.Duration
}

type PrinterConfig struct {
	Type    string // usb, network or none
	USBPath string
	Address string
	Width   int
	QRBase  string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

type BillingConfig struct {
	AllowOverpayment bool
	Currency         string
}

type LowStockConfig struct {
	Schedule   string
	AlertEmail string
	AlertPhone string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "hotel-billing-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "hotel_billing")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CHARGE_RULE_CACHE_TTL", "5m")
	viper.SetDefault("PAYMENT_LOCK_TTL", "15s")
	viper.SetDefault("PAYMENT_LOCK_RETRY", "50ms")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_PAYMENT_TOPIC", "billing.payment.recorded")
	viper.SetDefault("KAFKA_STOCK_TOPIC", "inventory.stock.low")
	viper.SetDefault("KAFKA_WRITE_TIMEOUT", "5s")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 48)
	viper.SetDefault("PRINTER_QR_BASE_URL", "http://localhost:3000/bills")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Hotel Billing")
	viper.SetDefault("BILLING_ALLOW_OVERPAYMENT", false)
	viper.SetDefault("CURRENCY", "KES")
	viper.SetDefault("LOW_STOCK_SCHEDULE", "@every 5m")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Redis: RedisConfig{
			Addr:           viper.GetString("REDIS_ADDR"),
			Password:       viper.GetString("REDIS_PASSWORD"),
			DB:             viper.GetInt("REDIS_DB"),
			ChargeRuleTTL:  viper.GetDuration("CHARGE_RULE_CACHE_TTL"),
			LockTTL:        viper.GetDuration("PAYMENT_LOCK_TTL"),
			LockRetryDelay: viper.GetDuration("PAYMENT_LOCK_RETRY"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(viper.GetString("KAFKA_BROKERS")),
			PaymentTopic: viper.GetString("KAFKA_PAYMENT_TOPIC"),
			StockTopic:   viper.GetString("KAFKA_STOCK_TOPIC"),
			WriteTimeout: viper.GetDuration("KAFKA_WRITE_TIMEOUT"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
			QRBase:  viper.GetString("PRINTER_QR_BASE_URL"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
		SMS: SMSConfig{
			AccountSID: viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  viper.GetString("TWILIO_AUTH_TOKEN"),
			From:       viper.GetString("TWILIO_PHONE_NUMBER"),
		},
		Billing: BillingConfig{
			AllowOverpayment: viper.GetBool("BILLING_ALLOW_OVERPAYMENT"),
			Currency:         viper.GetString("CURRENCY"),
		},
		LowStock: LowStockConfig{
			Schedule:   viper.GetString("LOW_STOCK_SCHEDULE"),
			AlertEmail: viper.GetString("LOW_STOCK_ALERT_EMAIL"),
			AlertPhone: viper.GetString("LOW_STOCK_ALERT_PHONE"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
