package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SBOM_TRANSLATOR"

const (
	keyConfig       = "config"
	keyLogLevel     = "log-level"
	keyOutput       = "output"
	keyOutputDir    = "output-dir"
	keyOutputFormat = "output-format"
	keyCompress     = "compress"
	keySniff        = "sniff"
	keyWorkers      = "workers"
	keyInclude      = "include"
)

type config struct {
	LogLevel     string
	Output       string
	OutputDir    string
	OutputFormat string
	Compress     bool
	Sniff        bool
	Workers      int
	Include      []string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig binds the flags of the running command and reads the optional
// config file. Flags win over environment variables, which win over the file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) (*config, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return &config{
		LogLevel:     v.GetString(keyLogLevel),
		Output:       v.GetString(keyOutput),
		OutputDir:    v.GetString(keyOutputDir),
		OutputFormat: v.GetString(keyOutputFormat),
		Compress:     v.GetBool(keyCompress),
		Sniff:        v.GetBool(keySniff),
		Workers:      v.GetInt(keyWorkers),
		Include:      v.GetStringSlice(keyInclude),
	}, nil
}

func setupLogging(level string, out io.Writer) error {
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if out == nil {
		out = os.Stderr
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	return nil
}
