package internal

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var c *config

const (
	RunAddress         = "RUN_ADDRESS"
	CommerceAPIAddress = "COMMERCE_API_ADDRESS"
	CommerceAPIToken   = "COMMERCE_API_TOKEN"
	PollInterval       = "POLL_INTERVAL"
	DatabaseURI        = "DATABASE_URI"
	KafkaBrokers       = "KAFKA_BROKERS"
	KafkaTopic         = "KAFKA_TOPIC"
	JWTSecret          = "JWT_SECRET"
	OperatorLogin      = "OPERATOR_LOGIN"
	OperatorPassword   = "OPERATOR_PASSWORD"
	OperatorRole       = "OPERATOR_ROLE"
)

const (
	defaultRunAddress   = "localhost:8080"
	defaultPollInterval = 10 * time.Second
	defaultKafkaTopic   = "order_notifications"
	defaultJWTSecret    = "secret" //todo secret
	defaultLogin        = "admin"
	defaultPassword     = "admin"
	defaultRole         = "superadmin"
)

// OperatorConfig is the hardcoded-credential session stub: a single operator
// account whose role gates polling and order operations.
type OperatorConfig struct {
	Login    string
	Password string
	Role     string
}

type config struct {
	RunAddress         string
	CommerceAPIAddress string
	CommerceAPIToken   string
	PollInterval       time.Duration
	DatabaseURI        string
	KafkaBrokers       string
	KafkaTopic         string
	JWTSecret          string
	Operator           OperatorConfig
}

func NewConfig() *config {
	_ = godotenv.Load()

	c = new(config)

	flag.StringVar(&c.RunAddress, "a", setEnvOrDefault(RunAddress, defaultRunAddress), "host to listen on")
	flag.StringVar(&c.CommerceAPIAddress, "r", setEnvOrDefault(CommerceAPIAddress, ""), "commerce backend address")
	flag.StringVar(&c.CommerceAPIToken, "t", setEnvOrDefault(CommerceAPIToken, ""), "commerce backend bearer token")
	flag.DurationVar(&c.PollInterval, "i", durationEnvOrDefault(PollInterval, defaultPollInterval), "order poll interval")
	flag.StringVar(&c.DatabaseURI, "d", setEnvOrDefault(DatabaseURI, ""), "postgres connection path for the notification audit log")
	flag.StringVar(&c.KafkaBrokers, "k", setEnvOrDefault(KafkaBrokers, ""), "comma-separated kafka brokers for the notification topic")
	flag.StringVar(&c.KafkaTopic, "kt", setEnvOrDefault(KafkaTopic, defaultKafkaTopic), "kafka notification topic")
	flag.StringVar(&c.JWTSecret, "s", setEnvOrDefault(JWTSecret, defaultJWTSecret), "jwt signing secret")
	flag.StringVar(&c.Operator.Login, "l", setEnvOrDefault(OperatorLogin, defaultLogin), "operator login")
	flag.StringVar(&c.Operator.Password, "p", setEnvOrDefault(OperatorPassword, defaultPassword), "operator password")
	flag.StringVar(&c.Operator.Role, "role", setEnvOrDefault(OperatorRole, defaultRole), "operator role")

	flag.Parse()
	return c
}

func setEnvOrDefault(env, def string) string {
	res, e := os.LookupEnv(env)
	if !e {
		res = def
	}
	return res
}

func durationEnvOrDefault(env string, def time.Duration) time.Duration {
	res, e := os.LookupEnv(env)
	if !e {
		return def
	}
	d, err := time.ParseDuration(res)
	if err != nil {
		return def
	}
	return d
}
