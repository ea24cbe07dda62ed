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

package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgsweep/cmd/cfgsweep/opts"
	"github.com/walteh/cfgsweep/pkg/config"
)

// NewReposCmd creates the repos command
func NewReposCmd(o *opts.RootOpts) *cobra.Command {
	var selectors []string

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List the configured repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			catalog, err := config.NewCatalog(cfg.Repositories)
			if err != nil {
				return err
			}
			repos, err := catalog.Select(selectors)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Name", "Clone URL"}}
			for _, repo := range repos {
				data = append(data, []string{repo.Name, repo.URL})
			}

			return pterm.DefaultTable.WithHasHeader().WithWriter(o.Console).WithData(data).Render()
		},
	}

	cmd.Flags().StringArrayVarP(&selectors, "select", "s", nil, "repository name glob to include (repeatable, default all)")

	return cmd
}
