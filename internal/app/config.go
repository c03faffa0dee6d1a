package app

import (
	"time"

	"github.com/courseforge/courseforge-backend/internal/platform/envutil"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type Config struct {
	JWTSecretKey string
	ListenAddr   string
	SaveTimeout  time.Duration
	EventsOn     bool
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	listenAddr := envutil.GetEnv("LISTEN_ADDR", ":8080", log)
	saveTimeoutSeconds := envutil.GetEnvAsInt("SAVE_TIMEOUT_SECONDS", 30, log)
	eventsOn := envutil.GetEnvAsBool("COURSE_EVENTS_ENABLED", false, log)
	return Config{
		JWTSecretKey: jwtSecretKey,
		ListenAddr:   listenAddr,
		SaveTimeout:  time.Duration(saveTimeoutSeconds) * time.Second,
		EventsOn:     eventsOn,
	}
}
