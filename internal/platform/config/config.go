package config

import (
	"os"
	"strings"
)

// Server captures process-level configuration.
type Server struct {
	Addr string
	// DatabaseURL selects the PostgreSQL stores; empty runs on the in-memory
	// stores, which lose data on restart.
	DatabaseURL   string
	JWTSigningKey string
	// KafkaBrokers enables the external audit feed when non-empty.
	KafkaBrokers   []string
	AuditFeedTopic string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CONFORMA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				brokers = append(brokers, broker)
			}
		}
	}
	topic := os.Getenv("AUDIT_FEED_TOPIC")
	if topic == "" {
		topic = "conforma.changelog"
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSigningKey:  jwtSigningKey,
		KafkaBrokers:   brokers,
		AuditFeedTopic: topic,
	}
}
