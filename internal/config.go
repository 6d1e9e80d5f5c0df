package internal

import "time"

type Config struct {
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=8080"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=720h"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=4096"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	AllowedOrigin     string        `env:"ALLOWED_ORIGIN,default=http://localhost:5173"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT,default=10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT,default=120s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=30s"`
	DebugPort         int           `env:"DEBUG_PORT,default=8081"`
}
