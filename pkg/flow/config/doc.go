// Package config loads chanflow settings from a YAML file, a .env file and
// CHANFLOW_* environment variables, and turns them into channel and stage
// options.
//
//	cfg, err := config.Load(config.WithConfigFile("chanflow.yml"))
//	if err != nil {
//		return err
//	}
//	opts, err := cfg.StageOptions("resize")
//	if err != nil {
//		return err
//	}
//	src, err := chain.Generate(next, opts...)
package config
