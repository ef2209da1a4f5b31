// Package settings resolves the runtime configuration shared by every docflow
// component: the base URL of the document API and the base URL of the Label
// Studio instance used for proofreading.
//
// Resolution is pure and cannot fail. An override that is present and
// non-empty is used verbatim; otherwise the URL is derived from the host name
// the process considers "current":
//
//	API_BASE_URL     = override or http://<hostname>:8010/api
//	LABEL_STUDIO_URL = override or http://<hostname>:8081
//
// The resolved Settings value is computed once at startup and handed to the
// API client explicitly; nothing in this package keeps global state.
package settings

import (
	"fmt"
	"net/url"
	"os"
)

const (
	// APIPort is the port of the document API when no override is given.
	APIPort = 8010

	// LabelStudioPort is the port of Label Studio when no override is given.
	LabelStudioPort = 8081

	// DefaultHostname is used when no host name is configured.
	DefaultHostname = "localhost"
)

// Environment variables consulted by OverridesFromEnv and Hostname.
const (
	EnvAPIBaseURL     = "DOCFLOW_API_BASE_URL"
	EnvLabelStudioURL = "DOCFLOW_LABEL_STUDIO_URL"
	EnvHostname       = "DOCFLOW_HOSTNAME"
)

// Overrides holds externally supplied values. Empty fields are treated as
// absent.
type Overrides struct {
	APIBaseURL     string
	LabelStudioURL string
}

// Settings is the resolved configuration. It is a plain value; copies are
// independent and nothing mutates it after Resolve returns.
type Settings struct {
	APIBaseURL     string `json:"API_BASE_URL"`
	LabelStudioURL string `json:"LABEL_STUDIO_URL"`
}

// Resolve applies the override-then-default rule to both URLs.
func Resolve(o Overrides, hostname string) Settings {
	s := Settings{
		APIBaseURL:     o.APIBaseURL,
		LabelStudioURL: o.LabelStudioURL,
	}
	if s.APIBaseURL == "" {
		s.APIBaseURL = fmt.Sprintf("http://%s:%d/api", hostname, APIPort)
	}
	if s.LabelStudioURL == "" {
		s.LabelStudioURL = fmt.Sprintf("http://%s:%d", hostname, LabelStudioPort)
	}
	return s
}

// Merge returns o with every non-empty field of other applied on top.
func (o Overrides) Merge(other Overrides) Overrides {
	if other.APIBaseURL != "" {
		o.APIBaseURL = other.APIBaseURL
	}
	if other.LabelStudioURL != "" {
		o.LabelStudioURL = other.LabelStudioURL
	}
	return o
}

// OverridesFromEnv reads overrides from the process environment.
func OverridesFromEnv() Overrides {
	return Overrides{
		APIBaseURL:     os.Getenv(EnvAPIBaseURL),
		LabelStudioURL: os.Getenv(EnvLabelStudioURL),
	}
}

// Hostname returns the host name used to derive default URLs.
func Hostname() string {
	if h := os.Getenv(EnvHostname); h != "" {
		return h
	}
	return DefaultHostname
}

// LabelStudioProjectURL returns the data manager link for a Label Studio
// project, optionally focused on a single task.
func (s Settings) LabelStudioProjectURL(projectID, taskID string) string {
	u := fmt.Sprintf("%s/projects/%s/data", s.LabelStudioURL, url.PathEscape(projectID))
	if taskID != "" {
		u += "?" + url.Values{"task": []string{taskID}}.Encode()
	}
	return u
}
