package cli

import (
	"fmt"

	"github.com/glorpus-work/refetch/internal/logger"
	"github.com/glorpus-work/refetch/pkg/config"
	"github.com/glorpus-work/refetch/pkg/digest"
	"github.com/glorpus-work/refetch/pkg/download"
	"github.com/glorpus-work/refetch/pkg/executor"
	"github.com/glorpus-work/refetch/pkg/hooks"
	"github.com/glorpus-work/refetch/pkg/registry"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}
	return config.DefaultConfigFile
}

// loadConfig loads the configuration and initializes logging from its
// settings. This is a bridge function that the CLI commands can use.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		logLevel = "debug"
	}
	if cfg.Settings.LogFile != "" {
		logger.InitLoggerWithFile(logLevel, cfg.Settings.LogFile)
	} else {
		logger.InitLogger(logLevel)
	}

	return cfg, nil
}

func loadDownloadManager(cfg *config.Config) *download.ManagerImpl {
	return download.NewManager(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
}

func loadRegistry(cfg *config.Config) (*registry.ManagerImpl, error) {
	reg := registry.New()
	if err := reg.Load(cfg.RegistryPath()); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func loadExecutor(cfg *config.Config, reg executor.DigestRecorder) *executor.Executor {
	return executor.New(cfg.Settings.BaseDir, cfg.ConflictCacheDir(), reg)
}

func loadDigest(cfg *config.Config) (digest.Func, error) {
	fn, err := digest.New(cfg.Settings.DigestAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to set up digest algorithm: %w", err)
	}
	return fn, nil
}

// loadHookManager returns nil when no hooks directory is configured.
func loadHookManager(cfg *config.Config) (*hooks.TengoExecutor, error) {
	if cfg.Settings.HooksDir == "" {
		return nil, nil
	}
	mgr := hooks.NewTengoExecutor()
	if err := hooks.LoadFromDir(mgr, cfg.Settings.HooksDir); err != nil {
		return nil, fmt.Errorf("failed to load hook scripts: %w", err)
	}
	return mgr, nil
}
