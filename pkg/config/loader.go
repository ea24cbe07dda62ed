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
	"bytes"
	"os"
	"strings"

	"github.com/walteh/cfgsweep/pkg/errs"
	"gopkg.in/yaml.v3"
)

// Environment variables holding credentials
const (
	EnvToken = "GITHUB_TOKEN"
	EnvUser  = "GITHUB_USER"
)

// 🔑 Credentials are the user identity and access token used for every repository
type Credentials struct {
	User  string
	Token string
}

// LoadCredentials reads credentials from the process environment
func LoadCredentials() Credentials {
	return Credentials{
		User:  strings.TrimSpace(os.Getenv(EnvUser)),
		Token: strings.TrimSpace(os.Getenv(EnvToken)),
	}
}

// Validate fails with a ConfigError when the token is missing
func (c Credentials) Validate() error {
	if c.Token == "" {
		return errs.Errorf(errs.KindConfig, "%s not set", EnvToken)
	}
	return nil
}

// LoadRepositoryList reads a JSON or YAML list of clone URLs. Blank entries are dropped.
func LoadRepositoryList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Errorf(errs.KindConfig, "reading repository list: %w", err)
	}

	var raw []string
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, errs.Errorf(errs.KindConfig, "parsing repository list %s: %w", path, err)
	}

	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
