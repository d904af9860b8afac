package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ShopID       string
	ShopName     string
	HTTPAddr     string
	Redis        RedisConfig
	SnapshotDSN  string
	SnapshotTick time.Duration
	ReportDir    string
	EditorPIN    string
	JWTSecret    string
	JWTTTL       time.Duration
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	snapshotTick, _ := strconv.Atoi(getEnv("SNAPSHOT_INTERVAL_SECONDS", "15"))
	jwtTTL, _ := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "720"))

	return Config{
		ShopID:   getEnv("SHOP_ID", "tux"),
		ShopName: getEnv("SHOP_NAME", "TUX - Burger Truck"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		SnapshotDSN:  getEnv("SNAPSHOT_DSN", ""),
		SnapshotTick: time.Duration(snapshotTick) * time.Second,
		ReportDir:    getEnv("REPORT_DIR", "reports"),
		EditorPIN:    getEnv("EDITOR_PIN", "0512"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTTTL:       time.Duration(jwtTTL) * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
