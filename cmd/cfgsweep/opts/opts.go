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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/config"
	"github.com/walteh/cfgsweep/pkg/log"
)

// 🎛️ RootOpts holds flags and dependencies shared by every command
type RootOpts struct {
	// ConfigFile is the run configuration path
	ConfigFile string
	// Debug enables debug logging
	Debug bool
	// Console receives user-facing output
	Console io.Writer
}

// New creates RootOpts printing to stdout
func New() *RootOpts {
	return &RootOpts{
		ConfigFile: config.DefaultFile,
		Console:    os.Stdout,
	}
}

// LoadConfig loads the configured file
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	return config.Load(ctx, o.ConfigFile)
}

// UserLogger creates a console logger recording to the context logger
func (o *RootOpts) UserLogger(ctx context.Context) *log.Logger {
	return log.New(o.Console, *zerolog.Ctx(ctx))
}
