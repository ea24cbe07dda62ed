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
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/workspace"
)

// 📦 Repository is a selectable repository
type Repository struct {
	Name string
	URL  string
}

// 🗂️ Catalog maps display names to clone URLs
type Catalog struct {
	repos  []Repository
	byName map[string]Repository
}

// NewCatalog builds a catalog from clone URLs. Repeated URLs collapse; two
// different URLs with the same display name are a ConfigError.
func NewCatalog(urls []string) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Repository)}
	collisions := map[string][]string{}

	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		name := workspace.DisplayName(u)
		if name == "" {
			return nil, errs.Errorf(errs.KindConfig, "cannot derive repository name from %q", raw)
		}
		if existing, ok := c.byName[name]; ok {
			if existing.URL != u {
				if len(collisions[name]) == 0 {
					collisions[name] = append(collisions[name], existing.URL)
				}
				collisions[name] = append(collisions[name], u)
			}
			continue
		}
		repo := Repository{Name: name, URL: u}
		c.byName[name] = repo
		c.repos = append(c.repos, repo)
	}

	if len(collisions) > 0 {
		names := make([]string, 0, len(collisions))
		for name := range collisions {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s (%s)", name, strings.Join(collisions[name], ", ")))
		}
		return nil, errs.Errorf(errs.KindConfig, "repository name collision: %s", strings.Join(parts, "; "))
	}

	return c, nil
}

// All returns every repository in configuration order
func (c *Catalog) All() []Repository {
	return append([]Repository(nil), c.repos...)
}

// Lookup finds a repository by display name
func (c *Catalog) Lookup(name string) (Repository, bool) {
	repo, ok := c.byName[name]
	return repo, ok
}

// Select returns the repositories whose display name matches any of the
// doublestar patterns, in configuration order. No patterns selects everything.
// A pattern that is malformed or matches nothing is a ConfigError.
func (c *Catalog) Select(patterns []string) ([]Repository, error) {
	if len(patterns) == 0 {
		return c.All(), nil
	}

	selected := make(map[string]bool)
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errs.Errorf(errs.KindConfig, "invalid selection pattern %q", pattern)
		}
		matched := false
		for _, repo := range c.repos {
			if ok, _ := doublestar.Match(pattern, repo.Name); ok {
				selected[repo.Name] = true
				matched = true
			}
		}
		if !matched {
			return nil, errs.Errorf(errs.KindConfig, "no repository matches %q", pattern)
		}
	}

	out := make([]Repository, 0, len(selected))
	for _, repo := range c.repos {
		if selected[repo.Name] {
			out = append(out, repo)
		}
	}
	return out, nil
}

// URLs returns the clone URLs of repos
func URLs(repos []Repository) []string {
	urls := make([]string, 0, len(repos))
	for _, repo := range repos {
		urls = append(urls, repo.URL)
	}
	return urls
}
