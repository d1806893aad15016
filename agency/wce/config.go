package wce

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mtransitapps/gtfs"
	"gopkg.in/yaml.v3"
)

// Config describes one deployment of the agency.
//
// The recognized short names and the trademark phrase have changed between feed revisions,
// so both are configurable rather than fixed.
type Config struct {
	AgencyColor string `yaml:"agencyColor" validate:"required,len=6,hexadecimal"`

	// RouteId is the output id of the single route the agency operates.
	RouteId   int64  `yaml:"routeId" validate:"gt=0"`
	ShortName string `yaml:"shortName" validate:"required"`
	// ShortNameVariants are the raw route_short_name spellings, compared case-sensitively.
	ShortNameVariants []string `yaml:"shortNameVariants" validate:"required,min=1,dive,required"`

	Trademark      string `yaml:"trademark" validate:"required"`
	HeadsignLeadIn string `yaml:"headsignLeadIn"`
	// SubstitutionMarker identifies bus trips replacing the train, compared case-insensitively.
	SubstitutionMarker string `yaml:"substitutionMarker" validate:"required"`

	StopIdOffset int `yaml:"stopIdOffset" validate:"gt=0"`

	// AcceptGoodEnoughMerge delegates unexpected headsign merges to the generic merge
	// instead of aborting the run.
	AcceptGoodEnoughMerge bool `yaml:"acceptGoodEnoughMerge"`

	Directions map[int]string `yaml:"directions" validate:"required,dive,keys,oneof=0 1,endkeys,oneof=EAST WEST NORTH SOUTH"`
}

// DefaultConfig returns the configuration matching the current feed.
func DefaultConfig() Config {
	return Config{
		AgencyColor:        "711E8C",
		RouteId:            997,
		ShortName:          "WCE",
		ShortNameVariants:  []string{"997", "WCE", "WEST COAST EXPRESS"},
		Trademark:          "West Coast Express",
		HeadsignLeadIn:     "west coast express train to",
		SubstitutionMarker: "trainbus",
		StopIdOffset:       1000000,
		Directions: map[int]string{
			0: string(gtfs.Bound_East),
			1: string(gtfs.Bound_West),
		},
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document keeps the defaults.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	return validator.New().Struct(cfg)
}

func (cfg Config) isVariant(shortName string) bool {
	for _, variant := range cfg.ShortNameVariants {
		if variant == shortName {
			return true
		}
	}
	return false
}
