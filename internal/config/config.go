package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DBURL           string   `mapstructure:"DB_URL"`
	RedisAddr       string   `mapstructure:"REDIS_ADDR"`
	MQTTBroker      string   `mapstructure:"MQTT_BROKER"`
	MQTTClientID    string   `mapstructure:"MQTT_CLIENT_ID"`
	MQTTUsername    string   `mapstructure:"MQTT_USERNAME"`
	MQTTPassword    string   `mapstructure:"MQTT_PASSWORD"`
	BaseTopic       string   `mapstructure:"MQTT_BASE_TOPIC"`
	Zones           []string `mapstructure:"ZONES"`
	LogLevel        string   `mapstructure:"LOG_LEVEL"`
	CooldownSeconds int      `mapstructure:"COOLDOWN_SECONDS"`
	RetentionDays   int      `mapstructure:"RETENTION_DAYS"`
	MDNSLocalName   string   `mapstructure:"MDNS_LOCAL_NAME"`
}

// LoadConfig reads configuration from .env and environment variables
func LoadConfig() (*Config, error) {
	// .env is optional; plain env vars still apply
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("MQTT_BROKER", "tcp://127.0.0.1:1883")
	viper.SetDefault("MQTT_CLIENT_ID", "mqtt_dashboard")
	viper.SetDefault("MQTT_USERNAME", "mqttuser")
	viper.SetDefault("MQTT_PASSWORD", "mqttpass")
	viper.SetDefault("MQTT_BASE_TOPIC", "smarthome")
	viper.SetDefault("ZONES", []string{"living_room"})
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("COOLDOWN_SECONDS", 8)
	viper.SetDefault("RETENTION_DAYS", 30)
	viper.SetDefault("MDNS_LOCAL_NAME", "smarthome.local")

	cfg := &Config{
		DBURL:           viper.GetString("DB_URL"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		MQTTBroker:      viper.GetString("MQTT_BROKER"),
		MQTTClientID:    viper.GetString("MQTT_CLIENT_ID"),
		MQTTUsername:    viper.GetString("MQTT_USERNAME"),
		MQTTPassword:    viper.GetString("MQTT_PASSWORD"),
		BaseTopic:       viper.GetString("MQTT_BASE_TOPIC"),
		Zones:           viper.GetStringSlice("ZONES"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		CooldownSeconds: viper.GetInt("COOLDOWN_SECONDS"),
		RetentionDays:   viper.GetInt("RETENTION_DAYS"),
		MDNSLocalName:   viper.GetString("MDNS_LOCAL_NAME"),
	}
	return cfg, nil
}
