// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/change"
	"github.com/walteh/cfgsweep/pkg/errs"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied to empty fields
const (
	DefaultBranch        = "auto/config-update"
	DefaultCommitMessage = "Plugin config updates from script"
	DefaultPRTitle       = "Plugin config updates from script"
	DefaultBaseBranch    = "master"
	DefaultConcurrency   = 5
	DefaultFile          = "cfgsweep.yaml"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 👤 Author is the identity recorded on commits
type Author struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" hcl:"name,optional"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" toml:"email,omitempty" hcl:"email,optional"`
}

// 📚 Config represents the complete run configuration
type Config struct {
	Repositories     []string      `json:"repositories,omitempty" yaml:"repositories,omitempty" toml:"repositories,omitempty"`
	RepositoriesFile string        `json:"repositories_file,omitempty" yaml:"repositories_file,omitempty" toml:"repositories_file,omitempty"`
	Changes          []change.Rule `json:"changes" yaml:"changes" toml:"changes"`
	Branch           string        `json:"branch,omitempty" yaml:"branch,omitempty" toml:"branch,omitempty"`
	CommitMessage    string        `json:"commit_message,omitempty" yaml:"commit_message,omitempty" toml:"commit_message,omitempty"`
	PRTitle          string        `json:"pr_title,omitempty" yaml:"pr_title,omitempty" toml:"pr_title,omitempty"`
	PRBody           string        `json:"pr_body,omitempty" yaml:"pr_body,omitempty" toml:"pr_body,omitempty"`
	BaseBranch       string        `json:"base_branch,omitempty" yaml:"base_branch,omitempty" toml:"base_branch,omitempty"`
	Reviewer         string        `json:"reviewer,omitempty" yaml:"reviewer,omitempty" toml:"reviewer,omitempty"`
	Concurrency      int           `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
	APIBaseURL       string        `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty" toml:"api_base_url,omitempty"`
	Owner            string        `json:"owner,omitempty" yaml:"owner,omitempty" toml:"owner,omitempty"`
	Author           Author        `json:"author,omitempty" yaml:"author,omitempty" toml:"author,omitempty"`
	StepTimeout      string        `json:"step_timeout,omitempty" yaml:"step_timeout,omitempty" toml:"step_timeout,omitempty"`

	location string
}

// 🎯 Load reads, parses, defaults and validates the configuration at path.
// Every failure is a ConfigError.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Errorf(errs.KindConfig, "reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errs.Errorf(errs.KindConfig, "no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errs.Errorf(errs.KindConfig, "parsing config: %w", err)
	}
	cfg.location = path

	if cfg.RepositoriesFile != "" {
		listPath := cfg.RepositoriesFile
		if !filepath.IsAbs(listPath) {
			listPath = filepath.Join(filepath.Dir(path), listPath)
		}
		urls, err := LoadRepositoryList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Repositories = append(cfg.Repositories, urls...)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errs.Errorf(errs.KindConfig, "validating config: %w", err)
	}

	logger.Debug().
		Int("repositories", len(cfg.Repositories)).
		Int("changes", len(cfg.Changes)).
		Msg("loaded configuration")

	return cfg, nil
}

// Location is the file the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// ApplyDefaults fills every empty field that has a static default
func (cfg *Config) ApplyDefaults() {
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	if cfg.CommitMessage == "" {
		cfg.CommitMessage = DefaultCommitMessage
	}
	if cfg.PRTitle == "" {
		cfg.PRTitle = DefaultPRTitle
	}
	if cfg.BaseBranch == "" {
		cfg.BaseBranch = DefaultBaseBranch
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
}

// ApplyCredentials fills the owner and commit identity from the environment user
func (cfg *Config) ApplyCredentials(creds Credentials) {
	if creds.User == "" {
		return
	}
	if cfg.Owner == "" {
		cfg.Owner = creds.User
	}
	if cfg.Author.Name == "" {
		cfg.Author.Name = creds.User
	}
	if cfg.Author.Email == "" {
		cfg.Author.Email = creds.User + "@users.noreply.github.com"
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Changes) == 0 {
		return errors.New("changes: at least one rule is required")
	}
	for i, rule := range cfg.Changes {
		if err := rule.Validate(); err != nil {
			return errors.Errorf("changes[%d]: %w", i, err)
		}
	}
	if len(cfg.Repositories) == 0 {
		return errors.New("repositories: at least one repository is required")
	}
	if cfg.Concurrency < 1 {
		return errors.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if _, err := cfg.Timeout(); err != nil {
		return err
	}
	if _, err := NewCatalog(cfg.Repositories); err != nil {
		return err
	}
	return nil
}

// Timeout parses step_timeout; an empty value means no timeout
func (cfg *Config) Timeout() (time.Duration, error) {
	if cfg.StepTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.StepTimeout)
	if err != nil {
		return 0, errors.Errorf("step_timeout: %w", err)
	}
	if d < 0 {
		return 0, errors.Errorf("step_timeout must not be negative, got %s", d)
	}
	return d, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d repositories, %d changes -> %s (base %s)", len(cfg.Repositories), len(cfg.Changes), cfg.Branch, cfg.BaseBranch)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
