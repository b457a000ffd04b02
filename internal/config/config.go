package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/YelzhanWeb/pos/internal/domain"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	API      APIConfig      `yaml:"api"`
	Kiosk    KioskConfig    `yaml:"kiosk"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Checkout CheckoutConfig `yaml:"checkout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	MaxConns int32  `yaml:"max_conns"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type APIConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type KioskConfig struct {
	Port           int           `yaml:"port"`
	APIURL         string        `yaml:"api_url"`
	DataDir        string        `yaml:"data_dir"`
	EmployeeID     int           `yaml:"employee_id"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type SurchargeRule struct {
	MenuItemIDs []int  `yaml:"menuitem_ids"`
	FoodItemIDs []int  `yaml:"fooditem_ids"`
	Amount      string `yaml:"amount"`
}

type PricingConfig struct {
	TaxRate    string          `yaml:"tax_rate"`
	Surcharges []SurchargeRule `yaml:"surcharges"`
}

type CheckoutConfig struct {
	// Policy is "abort" or "best_effort".
	Policy     string `yaml:"policy"`
	Compensate bool   `yaml:"compensate"`
	StrictBOM  bool   `yaml:"strict_bom"`
}

// Load reads a YAML config file, applies defaults and POS_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case os.IsNotExist(err):
		// defaults + env only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "pos",
			Password: "pos",
			Database: "pos",
			MaxConns: 10,
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			Exchange: "pos_events",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "inventory.movements",
		},
		API: APIConfig{
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Kiosk: KioskConfig{
			Port:           3001,
			APIURL:         "http://localhost:3000",
			DataDir:        "./kiosk-data",
			RequestTimeout: 10 * time.Second,
		},
		Pricing: PricingConfig{
			TaxRate: domain.DefaultTaxRate.String(),
		},
		Checkout: CheckoutConfig{
			Policy:     "abort",
			Compensate: true,
		},
	}
}

func (c *Config) Validate() error {
	if _, err := c.TaxRate(); err != nil {
		return err
	}
	if _, err := c.SurchargeTable(); err != nil {
		return err
	}
	if c.Checkout.Policy != "abort" && c.Checkout.Policy != "best_effort" {
		return fmt.Errorf("invalid checkout policy %q: must be abort or best_effort", c.Checkout.Policy)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka enabled but no brokers configured")
	}
	return nil
}

func (c *Config) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax_rate %q: %w", c.Pricing.TaxRate, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("tax_rate must not be negative")
	}
	return rate, nil
}

// SurchargeTable builds the composer's price table. No rules means the house default.
func (c *Config) SurchargeTable() (domain.SurchargeTable, error) {
	if len(c.Pricing.Surcharges) == 0 {
		return domain.DefaultSurchargeTable(), nil
	}

	table := domain.SurchargeTable{}
	for i, rule := range c.Pricing.Surcharges {
		amount, err := decimal.NewFromString(rule.Amount)
		if err != nil {
			return nil, fmt.Errorf("surcharges[%d]: invalid amount %q: %w", i, rule.Amount, err)
		}
		table.Set(rule.MenuItemIDs, rule.FoodItemIDs, amount)
	}
	return table, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "POS_DATABASE_HOST")
	setInt(&cfg.Database.Port, "POS_DATABASE_PORT")
	setString(&cfg.Database.User, "POS_DATABASE_USER")
	setString(&cfg.Database.Password, "POS_DATABASE_PASSWORD")
	setString(&cfg.Database.Database, "POS_DATABASE_NAME")
	setString(&cfg.RabbitMQ.Host, "POS_RABBITMQ_HOST")
	setString(&cfg.RabbitMQ.Password, "POS_RABBITMQ_PASSWORD")
	setString(&cfg.Redis.Addr, "POS_REDIS_ADDR")
	setString(&cfg.Kiosk.APIURL, "POS_KIOSK_API_URL")
	setString(&cfg.Kiosk.DataDir, "POS_KIOSK_DATA_DIR")
	setInt(&cfg.Kiosk.EmployeeID, "POS_KIOSK_EMPLOYEE_ID")
	setString(&cfg.Checkout.Policy, "POS_CHECKOUT_POLICY")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
