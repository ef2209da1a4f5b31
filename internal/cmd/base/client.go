package base

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ocrflow/docflow/internal/config"
	"github.com/ocrflow/docflow/pkg/docapi"
	"github.com/ocrflow/docflow/pkg/settings"
)

// ClientFlags are the flags shared by every command that talks to the
// document API.
type ClientFlags struct {
	Config         string
	APIURL         string
	LabelStudioURL string
	Hostname       string
	LogLevel       string
}

// Register adds the shared flags to f.
func (cf *ClientFlags) Register(f *FlagSet) {
	f.StringVar(
		&cf.Config, "config", "", "Path to a docflow HCL config file.",
	)
	f.StringVar(
		&cf.APIURL, "api-url", "",
		fmt.Sprintf("Base URL of the document API. Overrides %s and the config file.",
			settings.EnvAPIBaseURL),
	)
	f.StringVar(
		&cf.LabelStudioURL, "label-studio-url", "",
		fmt.Sprintf("Base URL of Label Studio. Overrides %s and the config file.",
			settings.EnvLabelStudioURL),
	)
	f.StringVar(
		&cf.Hostname, "hostname", "",
		fmt.Sprintf("Host the default URLs point at. Overrides %s and the config file.",
			settings.EnvHostname),
	)
	f.StringVar(
		&cf.LogLevel, "log-level", "",
		"Log level: trace, debug, info, warn, error or off.",
	)
}

// Env is the resolved runtime environment of a command.
type Env struct {
	Config   *config.Config
	Settings settings.Settings
	Logger   hclog.Logger
}

// Setup loads the config file and resolves settings. Values are layered as
// config file, then environment, then flags.
func (c *Command) Setup(cf *ClientFlags) (*Env, error) {
	cfg, err := config.NewConfig(cf.Config)
	if err != nil {
		return nil, err
	}

	overrides := cfg.Overrides().
		Merge(settings.OverridesFromEnv()).
		Merge(settings.Overrides{
			APIBaseURL:     cf.APIURL,
			LabelStudioURL: cf.LabelStudioURL,
		})

	level := cfg.Level()
	if cf.LogLevel != "" {
		level = hclog.LevelFromString(cf.LogLevel)
		if level == hclog.NoLevel {
			return nil, fmt.Errorf("unknown log level %q", cf.LogLevel)
		}
	}

	// The level is set on a copy. Loggers built with IndependentLevels keep
	// their own level, so c.Log is left as it was.
	logger := hclog.NewNullLogger()
	if c.Log != nil {
		logger = c.Log.ResetNamed(c.Log.Name())
	}
	logger.SetLevel(level)

	return &Env{
		Config:   cfg,
		Settings: settings.Resolve(overrides, hostname(cfg.Hostname, cf.Hostname)),
		Logger:   logger,
	}, nil
}

func hostname(fromFile, fromFlag string) string {
	h := fromFile
	if env := os.Getenv(settings.EnvHostname); env != "" {
		h = env
	}
	if fromFlag != "" {
		h = fromFlag
	}
	if h == "" {
		h = settings.DefaultHostname
	}
	return h
}

// Client returns a document API client for the resolved settings.
func (e *Env) Client() *docapi.Client {
	return docapi.NewClient(docapi.Config{
		BaseURL: docapi.BaseURL(&e.Settings),
		Timeout: e.Config.RequestTimeout(),
		Logger:  e.Logger,
	})
}
