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
	"github.com/spf13/cobra"
	"github.com/walteh/cfgsweep/cmd/cfgsweep/opts"
	"github.com/walteh/cfgsweep/pkg/change"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/log"
)

// NewRulesCmd creates the rules command group
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the configured change rules",
	}

	cmd.AddCommand(newRulesCheckCmd(o))

	return cmd
}

func newRulesCheckCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compile every search pattern without touching any repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			ulog := o.UserLogger(ctx)
			applicator := change.NewApplicator()

			invalid := 0
			for i, rule := range cfg.Changes {
				err := applicator.Check([]change.Rule{rule})
				if err != nil {
					invalid++
				}
				ulog.LogRuleCheck(ctx, log.RuleCheck{
					Index:      i,
					TargetFile: rule.TargetFile,
					Pattern:    rule.SearchPattern,
					Err:        err,
				})
			}

			if invalid > 0 {
				return errs.Errorf(errs.KindPattern, "%d of %d rules are invalid (patterns use RE2 syntax, templates use \\1 and \\g<name> group references)", invalid, len(cfg.Changes))
			}
			ulog.Successf("%d rules compiled", len(cfg.Changes))
			return nil
		},
	}
}
