package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional config file into a
// Config. File settings apply first; flags override them; leftover
// positional arguments are extra inputs.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Format:     FormatAuto,
		Threshold:  DefaultThreshold,
		Unit:       "s",
		CSVColumn:  "latency",
		JSONPath:   "latency",
		Workers:    4,
		ConfigFile: configPath,
		Tracing:    TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}

	if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	// Positional arguments are additional inputs.
	cfg.Inputs = append(cfg.Inputs, flagSet.Args()...)

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "inputs", "input"); ok {
		vals, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("inputs: %w", err)
		}
		cfg.Inputs = append(cfg.Inputs, vals...)
	}

	if raw, ok := lookupSetting(settings, "format"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("format: %w", err)
		}
		if val != "" {
			cfg.Format = Format(val)
		}
	}

	if raw, ok := lookupSetting(settings, "threshold"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("threshold: %w", err)
		}
		seconds, err := parseThreshold(val)
		if err != nil {
			return err
		}
		cfg.Threshold = seconds
	}

	if raw, ok := lookupSetting(settings, "unit"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("unit: %w", err)
		}
		if val != "" {
			cfg.Unit = val
		}
	}

	if raw, ok := lookupSetting(settings, "csvcolumn", "csv_column", "csv-column"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("csv_column: %w", err)
		}
		if val != "" {
			cfg.CSVColumn = val
		}
	}

	if raw, ok := lookupSetting(settings, "jsonpath", "json_path", "json-path"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("json_path: %w", err)
		}
		if val != "" {
			cfg.JSONPath = val
		}
	}

	if raw, ok := lookupSetting(settings, "errorpath", "error_path", "error-path"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("error_path: %w", err)
		}
		cfg.ErrorPath = val
	}

	if raw, ok := lookupSetting(settings, "hitrate", "hit_rate", "hit-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("hit_rate: %w", err)
		}
		cfg.HitRate = val
	}

	if raw, ok := lookupSetting(settings, "workers"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("workers: %w", err)
		}
		if val != 0 {
			cfg.Workers = val
		}
	}

	if raw, ok := lookupSetting(settings, "maxrate", "max_rate", "max-rate"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("max_rate: %w", err)
		}
		cfg.MaxRate = val
	}

	if raw, ok := lookupSetting(settings, "maxsamples", "max_samples", "max-samples"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("max_samples: %w", err)
		}
		cfg.MaxSamples = int64(val)
	}

	if raw, ok := lookupSetting(settings, "assertions", "assert"); ok {
		vals, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("assertions: %w", err)
		}
		cfg.Assertions = append(cfg.Assertions, vals...)
	}

	if raw, ok := lookupSetting(settings, "jsonoutput", "json_output", "json-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("json_output: %w", err)
		}
		cfg.JSONOutput = val
	}

	if raw, ok := lookupSetting(settings, "yamloutput", "yaml_output", "yaml-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("yaml_output: %w", err)
		}
		cfg.YAMLOutput = val
	}

	if raw, ok := lookupSetting(settings, "htmloutput", "html_output", "html-output"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("html_output: %w", err)
		}
		cfg.HTMLOutput = val
	}

	if raw, ok := lookupSetting(settings, "historyfile", "history_file", "history-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("history_file: %w", err)
		}
		cfg.HistoryFile = val
	}

	if raw, ok := lookupSetting(settings, "dashboard"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		cfg.Dashboard = val
	}

	if raw, ok := lookupSetting(settings, "noprogress", "no_progress", "no-progress"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("no_progress: %w", err)
		}
		cfg.NoProgress = val
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		section, ok := raw.(map[string]interface{})
		if !ok {
			return fmt.Errorf("tracing: expected a mapping, got %T", raw)
		}
		if err := applyTracingSettings(&cfg.Tracing, section); err != nil {
			return err
		}
	}

	return nil
}

func applyTracingSettings(cfg *TracingConfig, settings map[string]interface{}) error {
	if raw, ok := lookupSetting(settings, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("tracing.endpoint: %w", err)
		}
		cfg.Endpoint = val
	}
	if raw, ok := lookupSetting(settings, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("tracing.protocol: %w", err)
		}
		if val != "" {
			cfg.Protocol = val
		}
	}
	if raw, ok := lookupSetting(settings, "servicename", "service_name", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("tracing.service_name: %w", err)
		}
		cfg.ServiceName = val
	}
	if raw, ok := lookupSetting(settings, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("tracing.insecure: %w", err)
		}
		cfg.Insecure = val
	}
	if raw, ok := lookupSetting(settings, "samplerate", "sample_rate", "sample-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("tracing.sample_rate: %w", err)
		}
		cfg.SampleRate = val
	}
	return nil
}
