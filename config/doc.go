// Package config loads service settings from a file and the
// environment and turns them into [nethttp.Option] values.
//
// Files may be YAML, JSON or TOML. Environment variables override
// file values using the NETHTTP_ prefix with underscore separated
// paths, e.g. NETHTTP_BASE_URL or NETHTTP_THROTTLE_RPS. A .env file
// can be preloaded with [WithEnvFile]; it never overrides variables
// that are already set.
//
//	cfg, err := config.Load(config.WithConfigFile("nethttp.yaml"))
//	if err != nil {
//		return err
//	}
//
//	opts, err := cfg.Options()
//	if err != nil {
//		return err
//	}
//
//	svc, err := nethttp.New(opts...)
package config
