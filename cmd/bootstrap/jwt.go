package bootstrap

import (
	"time"

	"course-triage/internal/pkg/config"
	"course-triage/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	tokenDuration, err := time.ParseDuration(cfg.Auth.JWTDuration)
	if err != nil {
		panic("invalid AUTH_JWT_DURATION: " + err.Error())
	}

	return jwt.NewService(cfg.Auth.JWTSecret, tokenDuration)
}
