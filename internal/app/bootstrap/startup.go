// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	apikeystore "github.com/dalemusser/facilidocs/internal/app/store/apikeys"
	facilitystore "github.com/dalemusser/facilidocs/internal/app/store/facility"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration. Returning a non-nil
// error aborts startup and prevents the server from starting.
//
// The context will be cancelled if the process is asked to shut down while
// Startup is running; honor it in any long-running work.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SeedAPIKeyName != "" {
		if err := ensureBootstrapAPIKey(ctx, deps, appCfg.SeedAPIKeyName, logger); err != nil {
			logger.Error("failed to seed bootstrap API key", zap.Error(err))
			return err
		}
	}
	if appCfg.SeedFacilityName != "" && appCfg.SeedFacilityCode != "" {
		if err := ensureSeedFacility(ctx, deps, appCfg.SeedFacilityName, appCfg.SeedFacilityCode, logger); err != nil {
			logger.Error("failed to seed initial facility", zap.Error(err))
			return err
		}
	}
	return nil
}

// ensureSeedFacility registers the configured facility once; a facility
// already carrying the code makes this a no-op.
func ensureSeedFacility(ctx context.Context, deps DBDeps, name, code string, logger *zap.Logger) error {
	store := facilitystore.New(deps.MongoDatabase)

	exists, err := store.CodeExists(ctx, code)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug("seed facility already registered", zap.String("code", code))
		return nil
	}

	created, err := store.Create(ctx, facilitystore.CreateInput{Name: name, Code: code})
	if err != nil {
		return err
	}

	logger.Info("seed facility registered",
		zap.String("facility_id", created.ID.Hex()),
		zap.String("name", name),
		zap.String("code", code))
	return nil
}

// ensureBootstrapAPIKey creates the named API key if no active key exists.
// The full key is logged exactly once at creation; only its hash is stored.
func ensureBootstrapAPIKey(ctx context.Context, deps DBDeps, name string, logger *zap.Logger) error {
	store := apikeystore.New(deps.MongoDatabase)

	active, err := store.CountActive(ctx)
	if err != nil {
		return err
	}
	if active > 0 {
		logger.Debug("active API keys present, skipping bootstrap key", zap.Int64("count", active))
		return nil
	}

	result, err := store.Create(ctx, apikeystore.CreateInput{Name: name})
	if err != nil {
		return err
	}

	logger.Warn("bootstrap API key created; store it now, it will not be shown again",
		zap.String("name", name),
		zap.String("key", result.FullKey))
	return nil
}
