package config

import (
	"time"

	"github.com/mmundy42/cobrababel/internal/domain/normalize"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
)

// builtinRules returns the normalization rules shipped for the standard
// sources.  Field tables follow each source's published schema: BiGG's data
// API JSON, the MetaNetX chem_prop/reac_prop TSV column headers, and the
// KEGG flat-file field names lowered by the record parser.
func builtinRules() map[string]normalize.Rules {
	return map[string]normalize.Rules{
		"bigg": {
			Source: "bigg",
			Fields: map[string]string{
				normalize.FieldID:         "bigg_id",
				normalize.FieldName:       "name",
				normalize.FieldFormula:    "formula",
				normalize.FieldCharge:     "charge",
				normalize.FieldEquation:   "reaction_string",
				normalize.FieldLowerBound: "lower_bound",
				normalize.FieldUpperBound: "upper_bound",
				normalize.FieldNotes:      "database_links",
			},
			CompartmentDelimiter: "_",
		},
		"metanetx": {
			Source: "metanetx",
			Fields: map[string]string{
				normalize.FieldID:       "MNX_ID",
				normalize.FieldName:     "Description",
				normalize.FieldFormula:  "Formula",
				normalize.FieldCharge:   "Charge",
				normalize.FieldEquation: "Equation",
				normalize.FieldEC:       "EC",
				normalize.FieldAliases:  "Source",
			},
			CompartmentDelimiter: "@",
		},
		"kegg": {
			Source: "kegg",
			Fields: map[string]string{
				normalize.FieldID:       "entry",
				normalize.FieldName:     "name",
				normalize.FieldFormula:  "formula",
				normalize.FieldEquation: "equation",
				normalize.FieldEC:       "enzyme",
			},
			CompartmentDelimiter: "@",
		},
	}
}

// ApplyDefaults fills every unset field with its default value.  Explicitly
// configured values are never overwritten; built-in normalize rules are only
// added for source tags the deployment did not configure itself.
func (c *Config) ApplyDefaults() {
	if c.Build.ModelID == "" {
		c.Build.ModelID = "universal"
	}
	if c.Build.ModelName == "" {
		c.Build.ModelName = "Universal metabolic model"
	}
	if len(c.Build.Sources) == 0 {
		c.Build.Sources = []string{"bigg", "metanetx", "kegg"}
	}

	if c.Sources.BiGG.URL == "" {
		c.Sources.BiGG.URL = "http://bigg.ucsd.edu/api/v2"
	}
	if c.Sources.BiGG.PauseCount == 0 {
		c.Sources.BiGG.PauseCount = 250
	}
	if c.Sources.BiGG.PauseDuration == 0 {
		c.Sources.BiGG.PauseDuration = time.Second
	}
	if c.Sources.BiGG.Timeout == 0 {
		c.Sources.BiGG.Timeout = 30 * time.Second
	}
	if c.Sources.MetaNetX.URL == "" {
		c.Sources.MetaNetX.URL = "https://www.metanetx.org/cgi-bin/mnxget/mnxref"
	}
	if c.Sources.MetaNetX.Timeout == 0 {
		c.Sources.MetaNetX.Timeout = 5 * time.Minute
	}
	if c.Sources.KEGG.URL == "" {
		c.Sources.KEGG.URL = "http://rest.kegg.jp"
	}
	if c.Sources.KEGG.BatchSize == 0 {
		c.Sources.KEGG.BatchSize = 10
	}
	if c.Sources.KEGG.Timeout == 0 {
		c.Sources.KEGG.Timeout = 30 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "cobrababel"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "cobrababel"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.DefaultTTL == 0 {
		c.Redis.DefaultTTL = 24 * time.Hour
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "cobrababel:"
	}

	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "cobrababel-models"
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stderr"}
	}

	if c.Normalize == nil {
		c.Normalize = make(map[string]normalize.Rules)
	}
	for tag, rules := range builtinRules() {
		if _, ok := c.Normalize[tag]; !ok {
			c.Normalize[tag] = rules
		}
	}
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	c := &Config{Log: logging.Config{}}
	c.ApplyDefaults()
	return c
}
