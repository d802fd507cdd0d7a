// Package config defines the configuration structures for the calculator CLI
// and API server and includes functions for loading and converting them.
package config

import (
	"fmt"
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/constants"
	"github.com/Oldmanrunning/HELOC/pkg/datetime"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the HELOC calculator.
type Configuration struct {
	Loan    LoanConfig    `yaml:"loan"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, report
}

// ServerConfig holds the HTTP API options.
type ServerConfig struct {
	Address      string `yaml:"address,omitempty"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes,omitempty"`
}

// CacheConfig selects and sizes the schedule memoization cache.
type CacheConfig struct {
	Backend         string `yaml:"backend,omitempty"` // none, memory, redis
	MaxEntries      int    `yaml:"maxEntries,omitempty"`
	RedisAddress    string `yaml:"redisAddress,omitempty"`
	RedisTTLMinutes int    `yaml:"redisTtlMinutes,omitempty"`
}

// DrawConfig is one mid-term draw as configured: a 0-based month offset and
// an amount.
type DrawConfig struct {
	Month  int     `yaml:"month"`
	Amount float64 `yaml:"amount"`
}

// FeeConfig carries the quoted fee fields. Display values only.
type FeeConfig struct {
	Application float64 `yaml:"application,omitempty"`
	Appraisal   float64 `yaml:"appraisal,omitempty"`
	Origination float64 `yaml:"origination,omitempty"`
	Annual      float64 `yaml:"annual,omitempty"`
	Closing     float64 `yaml:"closing,omitempty"`
}

// LoanConfig describes the loan the CLI computes when not serving HTTP.
type LoanConfig struct {
	Principal       float64      `yaml:"principal"`
	AnnualRatePct   float64      `yaml:"annualRatePct"`
	TermYears       float64      `yaml:"termYears"`
	PaymentsPerYear int          `yaml:"paymentsPerYear,omitempty"`
	InterestOnly    bool         `yaml:"interestOnly,omitempty"`
	StartDate       string       `yaml:"startDate,omitempty"`
	Draws           []DrawConfig `yaml:"draws,omitempty"`
	AltRatePct      float64      `yaml:"altRatePct,omitempty"`
	HomeValue       float64      `yaml:"homeValue,omitempty"`
	ExistingLoan    float64      `yaml:"existingLoan,omitempty"`
	Fees            FeeConfig    `yaml:"fees,omitempty"`
}

// Cache backend names accepted in CacheConfig.Backend.
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := viper.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *Configuration) ApplyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendNone
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = constants.DefaultCacheEntries
	}
}

// ValidateOutputFormat rejects unknown output format names.
func (c *Configuration) ValidateOutputFormat() error {
	switch c.Output.Format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, constants.OutputFormatReport:
		return nil
	}
	return fmt.Errorf("invalid output format %q; must be one of %s, %s, %s, %s",
		c.Output.Format, constants.OutputFormatPretty, constants.OutputFormatCSV,
		constants.OutputFormatJSON, constants.OutputFormatReport)
}

// ValidateCache rejects unknown cache backends and missing redis addresses.
func (c *Configuration) ValidateCache() error {
	switch c.Cache.Backend {
	case CacheBackendNone, CacheBackendMemory:
		return nil
	case CacheBackendRedis:
		if c.Cache.RedisAddress == "" {
			return fmt.Errorf("cache backend %q requires redisAddress", CacheBackendRedis)
		}
		return nil
	}
	return fmt.Errorf("invalid cache backend %q; must be one of %s, %s, %s",
		c.Cache.Backend, CacheBackendNone, CacheBackendMemory, CacheBackendRedis)
}

// RedisTTL returns the configured redis entry lifetime.
func (c *CacheConfig) RedisTTL() time.Duration {
	return time.Duration(c.RedisTTLMinutes) * time.Minute
}

// Terms converts the loan block into engine terms. An unparsable start date
// surfaces as an InvalidInputError rather than being silently dropped.
func (lc LoanConfig) Terms() (heloc.LoanTerms, error) {
	terms := heloc.LoanTerms{
		Principal:       lc.Principal,
		AnnualRatePct:   lc.AnnualRatePct,
		TermYears:       lc.TermYears,
		PaymentsPerYear: lc.PaymentsPerYear,
		InterestOnly:    lc.InterestOnly,
	}
	if lc.StartDate != "" {
		start, err := datetime.ParseDate(lc.StartDate)
		if err != nil {
			return heloc.LoanTerms{}, &heloc.InvalidInputError{
				Field:  "startDate",
				Reason: fmt.Sprintf("unparsable date %q, expected %s", lc.StartDate, datetime.DateTimeLayout),
			}
		}
		terms.StartDate = start
	}
	return terms, nil
}

// DrawEvents converts the configured draw list into engine events.
func (lc LoanConfig) DrawEvents() []heloc.DrawEvent {
	if len(lc.Draws) == 0 {
		return nil
	}
	events := make([]heloc.DrawEvent, 0, len(lc.Draws))
	for _, d := range lc.Draws {
		events = append(events, heloc.DrawEvent{PeriodIndex: d.Month, Amount: d.Amount})
	}
	return events
}

// FeeSchedule converts the fee block into the engine's display type.
func (lc LoanConfig) FeeSchedule() heloc.FeeSchedule {
	return heloc.FeeSchedule{
		Application: lc.Fees.Application,
		Appraisal:   lc.Fees.Appraisal,
		Origination: lc.Fees.Origination,
		Annual:      lc.Fees.Annual,
		Closing:     lc.Fees.Closing,
	}
}
