package config

import (
	_ "embed"
	"os"
	"strings"

	perr "flyersync/internal/platform/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed markets.yaml
var defaultMarkets []byte

// Target is one (market, language) scrape target
type Target struct {
	Market        string `yaml:"market" json:"market" validate:"required,lowercase,alphanum"`
	Language      string `yaml:"language" json:"language" validate:"required,oneof=de fr it"`
	URL           string `yaml:"url" json:"url" validate:"required,url"`
	TitleTemplate string `yaml:"title_template" json:"titleTemplate" validate:"required"`
	Disabled      bool   `yaml:"disabled" json:"disabled"`
}

// Key identifies the target for logs and scratch paths
func (t Target) Key() string { return t.Market + "/" + t.Language }

type marketsFile struct {
	Targets []Target `yaml:"targets" validate:"required,min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadMarkets reads targets from path, or the embedded defaults when path is
// empty. Disabled targets are dropped; order is preserved.
func LoadMarkets(path string) ([]Target, error) {
	data := defaultMarkets
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read markets file %s", path)
		}
		data = b
	}
	return ParseMarkets(data)
}

// ParseMarkets decodes and validates a markets document
func ParseMarkets(data []byte) ([]Target, error) {
	var mf marketsFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "decode markets yaml")
	}
	for i := range mf.Targets {
		mf.Targets[i].Market = strings.ToLower(strings.TrimSpace(mf.Targets[i].Market))
		mf.Targets[i].Language = strings.ToLower(strings.TrimSpace(mf.Targets[i].Language))
	}
	if err := validate.Struct(mf); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "invalid markets config")
	}

	seen := make(map[string]bool, len(mf.Targets))
	out := make([]Target, 0, len(mf.Targets))
	for _, t := range mf.Targets {
		if seen[t.Key()] {
			return nil, perr.Validationf("duplicate target %s", t.Key())
		}
		seen[t.Key()] = true
		if t.Disabled {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, perr.Validationf("no enabled targets")
	}
	return out, nil
}

// MarketNames returns the distinct market names in first-seen order
func MarketNames(ts []Target) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range ts {
		if !seen[t.Market] {
			seen[t.Market] = true
			out = append(out, t.Market)
		}
	}
	return out
}
