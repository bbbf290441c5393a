// Package policyconfig loads the optional deployer-supplied overrides for
// R-SIZE-01's threshold/severity and the active policy identifier, resolving
// the Open Question spec.md §9 leaves externalized. Absent a file, compiled-in
// defaults apply. Values are read once at construction and injected into the
// rule catalog; spec.md §9's design note ("catalog is data, not code") means
// they are never re-read during evaluation.
package policyconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/0xphen/sebi/internal/rules"
)

// Config is the on-disk shape of an optional policy file.
type Config struct {
	Policy             string `yaml:"policy"`
	SizeThresholdBytes int64  `yaml:"size_threshold_bytes"`
	SizeRuleSeverity   string `yaml:"size_rule_severity"`
}

// Default returns the compiled-in configuration: default policy, 200 KiB
// threshold, Med severity, matching spec.md §9's explicit suggestion.
func Default() Config {
	return Config{
		Policy:             "default",
		SizeThresholdBytes: 200 * 1024,
		SizeRuleSeverity:   "Med",
	}
}

// Load reads a YAML policy file at path. A missing file is not an error: the
// caller gets Default() back unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("policyconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("policyconfig: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SizeRuleSeverity {
	case "Med", "High":
	default:
		return fmt.Errorf("policyconfig: invalid size_rule_severity %q (want Med or High)", c.SizeRuleSeverity)
	}
	if c.SizeThresholdBytes < 0 {
		return fmt.Errorf("policyconfig: size_threshold_bytes must be non-negative, got %d", c.SizeThresholdBytes)
	}
	return nil
}

// SizeParams converts the loaded config into the rules.SizeParams the
// catalog constructor expects.
func (c Config) SizeParams() rules.SizeParams {
	return rules.SizeParams{
		ThresholdBytes: c.SizeThresholdBytes,
		Severity:       rules.Severity(c.SizeRuleSeverity),
	}
}
