package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings of every loyalty binary. Values come from the environment.
type Config struct {
	HTTPPort     string
	GRPCPort     string
	OtelEndpoint string
	Postgres     Postgres
	Mongo        Mongo
	Redis        Redis
	Kafka        Kafka
	Rabbit       Rabbit
	Workers      Workers
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type Mongo struct {
	Addr     string
	Database string
}

type Redis struct {
	Addr     string
	User     string
	Password string
	TTL      time.Duration
}

type Kafka struct {
	URL          string
	Port         string
	GroupID      string
	OrdersTopic  string
	ReturnsTopic string
}

type Rabbit struct {
	URL      string
	Port     string
	User     string
	Password string
	VHost    string
	Workers  int
}

// Prefetch is the number of unacknowledged deliveries the broker hands out.
func (r Rabbit) Prefetch() int {
	return positive(r.Workers)
}

type Workers struct {
	Orders  int
	Returns int
	Redeems int
	Expiry  int
}

// ключ конфигурации -> переменная окружения
var envs = map[string]string{
	"http.port":       "LOYALTY_HTTP_PORT",
	"grpc.port":       "LOYALTY_GRPC_PORT",
	"otel.endpoint":   "OTEL_EXPORTER_OTLP_ENDPOINT",
	"db.host":         "LOYALTY_DB",
	"db.port":         "LOYALTY_DB_PORT",
	"db.user":         "LOYALTY_DB_USER",
	"db.password":     "LOYALTY_DB_PASSWORD",
	"db.base":         "LOYALTY_DB_BASE",
	"mongo.addr":      "LOYALTY_MONGO",
	"mongo.database":  "LOYALTY_MONGO_BASE",
	"cache.url":       "LOYALTY_CACHE_URL",
	"cache.user":      "LOYALTY_CACHE_USER",
	"cache.password":  "LOYALTY_CACHE_PWD",
	"cache.ttl":       "LOYALTY_CACHE_TTL",
	"kafka.url":       "KAFKA_ORDER_URL",
	"kafka.port":      "KAFKA_ORDER_PORT",
	"kafka.group":     "KAFKA_ORDER_GROUP",
	"kafka.orders":    "KAFKA_ORDERS_TOPIC",
	"kafka.returns":   "KAFKA_RETURNS_TOPIC",
	"rabbit.url":      "RABBIT_URL",
	"rabbit.port":     "RABBIT_PORT",
	"rabbit.user":     "RABBIT_USER",
	"rabbit.password": "RABBIT_PASSWORD",
	"rabbit.vhost":    "RABBIT_VHOST",
	"workers.orders":  "LOYALTY_ORDERS_COUNT",
	"workers.returns": "LOYALTY_RETURNS_COUNT",
	"workers.redeems": "LOYALTY_REDEEM_COUNT",
	"workers.expiry":  "LOYALTY_EXPIRY_COUNT",
}

func Load() (*Config, error) {
	v := viper.New()
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}
	v.SetDefault("mongo.database", "loyaltyDB")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("kafka.group", "orders_loyalty")
	v.SetDefault("kafka.orders", "orders")
	v.SetDefault("kafka.returns", "returns")
	v.SetDefault("rabbit.vhost", "loyalty")
	v.SetDefault("workers.orders", 5)
	v.SetDefault("workers.returns", 5)
	v.SetDefault("workers.redeems", 5)
	v.SetDefault("workers.expiry", 3)

	cfg := &Config{
		HTTPPort:     v.GetString("http.port"),
		GRPCPort:     v.GetString("grpc.port"),
		OtelEndpoint: v.GetString("otel.endpoint"),
		Postgres: Postgres{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Database: v.GetString("db.base"),
		},
		Mongo: Mongo{
			Addr:     v.GetString("mongo.addr"),
			Database: v.GetString("mongo.database"),
		},
		Redis: Redis{
			Addr:     v.GetString("cache.url"),
			User:     v.GetString("cache.user"),
			Password: v.GetString("cache.password"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Kafka: Kafka{
			URL:          v.GetString("kafka.url"),
			Port:         v.GetString("kafka.port"),
			GroupID:      v.GetString("kafka.group"),
			OrdersTopic:  v.GetString("kafka.orders"),
			ReturnsTopic: v.GetString("kafka.returns"),
		},
		Rabbit: Rabbit{
			URL:      v.GetString("rabbit.url"),
			Port:     v.GetString("rabbit.port"),
			User:     v.GetString("rabbit.user"),
			Password: v.GetString("rabbit.password"),
			VHost:    v.GetString("rabbit.vhost"),
			Workers:  v.GetInt("workers.redeems"),
		},
		Workers: Workers{
			Orders:  positive(v.GetInt("workers.orders")),
			Returns: positive(v.GetInt("workers.returns")),
			Redeems: positive(v.GetInt("workers.redeems")),
			Expiry:  positive(v.GetInt("workers.expiry")),
		},
	}
	return cfg, nil
}

func positive(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// Required returns an error naming the environment variable of the first empty value.
func Required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("env %s is not set", envs[pairs[i]])
		}
	}
	return nil
}

func (p Postgres) DSN() (string, error) {
	err := Required("db.host", p.Host, "db.port", p.Port, "db.user", p.User, "db.password", p.Password, "db.base", p.Database)
	if err != nil {
		return "", err
	}
	return "postgres://" + p.User + ":" + p.Password + "@" + p.Host + ":" + p.Port + "/" + p.Database, nil
}

func (m Mongo) URI() (string, error) {
	if err := Required("mongo.addr", m.Addr); err != nil {
		return "", err
	}
	return "mongodb://" + m.Addr, nil
}

func (r Rabbit) URI() (string, error) {
	err := Required("rabbit.url", r.URL, "rabbit.port", r.Port, "rabbit.user", r.User, "rabbit.password", r.Password)
	if err != nil {
		return "", err
	}
	return "amqp://" + r.User + ":" + r.Password + "@" + r.URL + ":" + r.Port + "/" + r.VHost, nil
}

func (k Kafka) Broker() (string, error) {
	if err := Required("kafka.url", k.URL, "kafka.port", k.Port); err != nil {
		return "", err
	}
	return k.URL + ":" + k.Port, nil
}
