package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.ServerPort != 8080 {
		t.Errorf("expected default server port 8080, got %d", cfg.ServerPort)
	}
	if cfg.SuggestPort != 8081 {
		t.Errorf("expected default suggest port 8081, got %d", cfg.SuggestPort)
	}
	if cfg.Mongo.DBName != "datasets" {
		t.Errorf("expected default database name datasets, got %q", cfg.Mongo.DBName)
	}
	if cfg.GenAI.Model != "gemini-1.5-flash" {
		t.Errorf("unexpected default model %q", cfg.GenAI.Model)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLIENT_ORIGIN", "https://app.example.com")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("EVENTS_BACKEND", "rabbitmq")
	t.Setenv("RABBITMQ_QUEUE_DURABLE", "false")

	cfg := LoadConfig()

	if cfg.ServerPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.ServerPort)
	}
	if cfg.ClientOrigin != "https://app.example.com" {
		t.Errorf("unexpected client origin %q", cfg.ClientOrigin)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("unexpected secret %q", cfg.Auth.JWTSecret)
	}
	if cfg.Events.Backend != "rabbitmq" {
		t.Errorf("unexpected events backend %q", cfg.Events.Backend)
	}
	if cfg.Events.RabbitMQ.QueueDurable {
		t.Error("expected queue durability to be disabled")
	}
}
