package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/adapters/authroles"
	"github.com/agbarbie/Rural-Connect-sub000/internal/adapters/oidc"
	redisadapter "github.com/agbarbie/Rural-Connect-sub000/internal/adapters/redis"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

// AuthConfig contains configuration for bearer token verification.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildVerifier creates the token verifier for the configured auth mode.
//
//nolint:ireturn // the concrete verifier depends on AUTH_MODE.
func BuildVerifier(ctx context.Context, cfg AuthConfig) (ports.TokenVerifier, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Auth.Mode {
	case config.AuthModeOIDC:
		oidcCfg := oidc.VerifierConfig{
			IssuerURL:        cfg.Auth.OIDC.IssuerURL,
			ClientID:         cfg.Auth.OIDC.ClientID,
			RoleClaim:        cfg.Auth.OIDC.RoleClaim,
			UserInfoFallback: cfg.Auth.OIDC.UserInfoFallback,
			GroupsClaim:      cfg.Auth.OIDC.GroupsClaim,
		}
		if mapper := groupMapper(cfg.Auth.OIDC); mapper.Configured() {
			oidcCfg.Groups = mapper
		}
		v, err := oidc.NewVerifier(ctx, oidcCfg)
		if err != nil {
			return nil, fmt.Errorf("build oidc verifier: %w", err)
		}
		logger.Info("auth configured", "mode", cfg.Auth.Mode, "issuer", cfg.Auth.OIDC.IssuerURL)
		return v, nil

	case config.AuthModeSession, "":
		if cfg.RedisClient == nil {
			return nil, errors.New("session auth requires redis")
		}
		store, err := redisadapter.NewSessionStore(redisadapter.SessionStoreOptions{
			Client:     cfg.RedisClient,
			KeyPrefix:  cfg.Auth.Session.KeyPrefix,
			DefaultTTL: cfg.Auth.Session.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("build session store: %w", err)
		}
		logger.Info("auth configured", "mode", config.AuthModeSession, "key_prefix", cfg.Auth.Session.KeyPrefix)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func groupMapper(cfg config.OIDCConfig) authroles.StaticRoleMapper {
	return authroles.StaticRoleMapper{
		AdminGroup:     cfg.AdminGroup,
		EmployerGroup:  cfg.EmployerGroup,
		JobseekerGroup: cfg.JobseekerGroup,
	}
}
