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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/cfgsweep/pkg/change"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Expressions can read the process environment through env, e.g. env.GITHUB_USER.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	type hclConfig struct {
		Repositories     []string      `hcl:"repositories,optional"`
		RepositoriesFile string        `hcl:"repositories_file,optional"`
		Changes          []change.Rule `hcl:"change,block"`
		Branch           string        `hcl:"branch,optional"`
		CommitMessage    string        `hcl:"commit_message,optional"`
		PRTitle          string        `hcl:"pr_title,optional"`
		PRBody           string        `hcl:"pr_body,optional"`
		BaseBranch       string        `hcl:"base_branch,optional"`
		Reviewer         string        `hcl:"reviewer,optional"`
		Concurrency      int           `hcl:"concurrency,optional"`
		APIBaseURL       string        `hcl:"api_base_url,optional"`
		Owner            string        `hcl:"owner,optional"`
		Author           *Author       `hcl:"author,block"`
		StepTimeout      string        `hcl:"step_timeout,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Repositories:     hclCfg.Repositories,
		RepositoriesFile: hclCfg.RepositoriesFile,
		Changes:          hclCfg.Changes,
		Branch:           hclCfg.Branch,
		CommitMessage:    hclCfg.CommitMessage,
		PRTitle:          hclCfg.PRTitle,
		PRBody:           hclCfg.PRBody,
		BaseBranch:       hclCfg.BaseBranch,
		Reviewer:         hclCfg.Reviewer,
		Concurrency:      hclCfg.Concurrency,
		APIBaseURL:       hclCfg.APIBaseURL,
		Owner:            hclCfg.Owner,
		StepTimeout:      hclCfg.StepTimeout,
	}
	if hclCfg.Author != nil {
		cfg.Author = *hclCfg.Author
	}

	return cfg, nil
}

// environment exposes the process environment as an HCL object
func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
