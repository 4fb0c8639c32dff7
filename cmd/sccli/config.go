package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

// config is the on-disk shape loaded by --config. Subcommands fall back to
// its scheme when their own --scheme flag is empty; param_set and coder are
// parsed but not applied by any subcommand.
type config struct {
	Scheme   string `yaml:"scheme"`
	ParamSet int    `yaml:"param_set"`
	Coder    string `yaml:"coder"`
}

func defaultConfig() config {
	return config{Scheme: "BLISS-B", ParamSet: 0, Coder: "none"}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("sccli: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sccli: parse config: %w", err)
	}
	return cfg, nil
}

// schemesByName indexes every Kind this build knows about by its
// String() name, built once at startup rather than hand-maintained
// alongside the Kind enum.
var schemesByName = func() map[string]scheme.Kind {
	out := make(map[string]scheme.Kind)
	for _, category := range []scheme.Category{
		scheme.CategorySignature, scheme.CategoryEncryption, scheme.CategoryKEM, scheme.CategoryIBE,
	} {
		for _, k := range scheme.Schemes(category) {
			out[k.String()] = k
		}
	}
	out[scheme.HelloWorld.String()] = scheme.HelloWorld
	return out
}()

func resolveScheme(name string) (scheme.Kind, error) {
	k, ok := schemesByName[name]
	if !ok {
		return 0, fmt.Errorf("sccli: unknown scheme %q (see `sccli schemes`)", name)
	}
	return k, nil
}
