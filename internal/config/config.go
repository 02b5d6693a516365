// Package config loads smlctl's settings the way mappa's root command
// binds cobra flags into viper: flags take precedence, falling back to a
// config file and environment variables, with BindPFlag doing the wiring
// rather than a second manual merge step.
package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is smlctl's resolved runtime configuration.
type Config struct {
	// InstallDir is where downloaded mod archives are unpacked.
	InstallDir string
	// CatalogAddr is the host:port of the remote mod registry's gRPC endpoint.
	CatalogAddr string
	// RedisAddr, if set, backs the catalog memoization cache with redis
	// instead of the in-process map.
	RedisAddr string
	// ModCacheDB is the path to the local sqlite mod cache index.
	ModCacheDB string
	// CacheTTL is the TTL of the redis-backed catalog cache. It has no
	// effect when RedisAddr is empty: the in-process cache used then
	// always expires entries after 5 minutes.
	CacheTTL time.Duration
}

// Bind registers smlctl's persistent flags on cmd's flag set and binds
// each to its viper key, matching mappa's PersistentFlags + BindPFlag
// pattern in main.go.
func Bind(flags *pflag.FlagSet) {
	flags.String("install-dir", ".", "Directory mod archives are installed into")
	flags.String("catalog-addr", "127.0.0.1:50200", "host:port of the mod catalog gRPC endpoint")
	flags.String("redis-addr", "", "redis address backing the catalog cache (empty disables)")
	flags.String("modcache-db", "modcache.db", "path to the local mod cache sqlite index")
	flags.Duration("cache-ttl", 5*time.Minute, "catalog memoization TTL")

	_ = viper.BindPFlag("install-dir", flags.Lookup("install-dir"))
	_ = viper.BindPFlag("catalog-addr", flags.Lookup("catalog-addr"))
	_ = viper.BindPFlag("redis-addr", flags.Lookup("redis-addr"))
	_ = viper.BindPFlag("modcache-db", flags.Lookup("modcache-db"))
	_ = viper.BindPFlag("cache-ttl", flags.Lookup("cache-ttl"))
}

// Load reads viper's bound values (flags, then SMLCTL_-prefixed env vars,
// then an smlctl.yaml config file if present on the search path) into a
// Config.
func Load() (*Config, error) {
	viper.SetEnvPrefix("smlctl")
	viper.AutomaticEnv()

	viper.SetConfigName("smlctl")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/smlctl")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	return &Config{
		InstallDir:  viper.GetString("install-dir"),
		CatalogAddr: viper.GetString("catalog-addr"),
		RedisAddr:   viper.GetString("redis-addr"),
		ModCacheDB:  viper.GetString("modcache-db"),
		CacheTTL:    viper.GetDuration("cache-ttl"),
	}, nil
}
