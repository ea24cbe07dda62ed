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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgsweep/cmd/cfgsweep/opts"
	"github.com/walteh/cfgsweep/pkg/change"
	"github.com/walteh/cfgsweep/pkg/config"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/git"
	"github.com/walteh/cfgsweep/pkg/operation"
	"github.com/walteh/cfgsweep/pkg/publish"
	"github.com/walteh/cfgsweep/pkg/remote/github"
	"github.com/walteh/cfgsweep/pkg/status"
	"github.com/walteh/cfgsweep/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// applyFlags override values from the config file
type applyFlags struct {
	selectors   []string
	dryRun      bool
	branch      string
	base        string
	title       string
	body        string
	message     string
	reviewer    string
	concurrency int
}

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	f := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the configured changes and open pull requests",
		Long: `Apply runs the configured change rules against every selected repository.
For each repository it will:
1. Clone it into a fresh temporary directory
2. Create the working branch
3. Apply every rule in order
4. If anything changed, commit, push and open a pull request
5. Remove the temporary directory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := f.override(cmd, cfg); err != nil {
				return err
			}
			zerolog.Ctx(ctx).Debug().Stringer("config", cfg).Str("path", cfg.Location()).Msg("effective configuration")

			creds := config.LoadCredentials()
			if !f.dryRun {
				if err := creds.Validate(); err != nil {
					return err
				}
			}
			cfg.ApplyCredentials(creds)
			if !f.dryRun && cfg.Owner == "" {
				return errs.Errorf(errs.KindConfig, "owner is not configured and %s is not set", config.EnvUser)
			}

			catalog, err := config.NewCatalog(cfg.Repositories)
			if err != nil {
				return err
			}
			repos, err := catalog.Select(f.selectors)
			if err != nil {
				return err
			}

			timeout, err := cfg.Timeout()
			if err != nil {
				return errs.New(errs.KindConfig, err)
			}

			var publisher publish.Publisher = publish.DryRun{}
			if !f.dryRun {
				host, err := github.New(creds.Token, cfg.APIBaseURL)
				if err != nil {
					return err
				}
				publisher = publish.NewPipeline(host, cfg.Owner, git.Identity{Name: cfg.Author.Name, Email: cfg.Author.Email})
			}

			manager := workspace.NewManager(git.NewClient(git.Credentials{Username: creds.User, Token: creds.Token}))
			pipeline := operation.NewPipeline(manager, change.NewApplicator(), publisher,
				operation.WithStepTimeout(timeout),
			)

			ulog := o.UserLogger(ctx)
			mode := ""
			if f.dryRun {
				mode = " (dry run)"
			}
			ulog.Header(fmt.Sprintf("sweeping %d repositories%s", len(repos), mode))
			if f.dryRun {
				ulog.Warning("dry run: no branch will be pushed")
			}

			report := status.New(zerolog.Ctx(ctx))
			req := operation.Request{
				Rules: cfg.Changes,
				Publish: publish.Request{
					Branch:        cfg.Branch,
					CommitMessage: cfg.CommitMessage,
					Title:         cfg.PRTitle,
					Body:          cfg.PRBody,
					Base:          cfg.BaseBranch,
					Reviewer:      cfg.Reviewer,
				},
			}

			if err := operation.NewBatch(pipeline, newProgressReporter(report), cfg.Concurrency).Run(ctx, config.URLs(repos), req); err != nil {
				return err
			}

			results := report.Results()
			for _, res := range results {
				ulog.LogResult(ctx, res)
			}
			ulog.LogSummary(ctx)

			if failed := report.Failed(); len(failed) > 0 {
				return errors.Errorf("%d of %d repositories failed", len(failed), len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&f.selectors, "select", "s", nil, "repository name glob to include (repeatable, default all)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "clone, branch and apply without committing or opening pull requests")
	cmd.Flags().StringVar(&f.branch, "branch", "", "branch to create in every repository")
	cmd.Flags().StringVar(&f.base, "base", "", "base branch of the pull requests")
	cmd.Flags().StringVar(&f.title, "title", "", "pull request title")
	cmd.Flags().StringVar(&f.body, "body", "", "pull request description")
	cmd.Flags().StringVar(&f.message, "message", "", "commit message")
	cmd.Flags().StringVar(&f.reviewer, "reviewer", "", "user to request a review from")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "number of repositories processed at once")

	return cmd
}

// override copies explicitly set flags onto cfg
func (f *applyFlags) override(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("branch") {
		cfg.Branch = f.branch
	}
	if flags.Changed("base") {
		cfg.BaseBranch = f.base
	}
	if flags.Changed("title") {
		cfg.PRTitle = f.title
	}
	if flags.Changed("body") {
		cfg.PRBody = f.body
	}
	if flags.Changed("message") {
		cfg.CommitMessage = f.message
	}
	if flags.Changed("reviewer") {
		cfg.Reviewer = f.reviewer
	}
	if flags.Changed("concurrency") {
		if f.concurrency < 1 {
			return errs.Errorf(errs.KindConfig, "concurrency must be at least 1, got %d", f.concurrency)
		}
		cfg.Concurrency = f.concurrency
	}
	if cfg.Branch == "" {
		return errs.Errorf(errs.KindConfig, "branch must not be empty")
	}
	return nil
}
