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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgsweep/cmd/cfgsweep/commands"
	"github.com/walteh/cfgsweep/cmd/cfgsweep/opts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := setupLogging()
	ctx = logger.WithContext(ctx)

	rootCmd := newRootCmd(opts.New())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd wires every subcommand onto the root command
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cfgsweep",
		Short: "Apply configuration edits across many repositories and open pull requests",
		Long: `cfgsweep clones each selected repository, applies an ordered list of
regular-expression edits, and when anything changed commits, pushes a branch
and opens a pull request, optionally requesting a reviewer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setLevel(o.Debug)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewReposCmd(o),
		commands.NewRulesCmd(o),
		newVersionCmd(o),
	)

	return rootCmd
}
