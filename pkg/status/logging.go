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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	resultIndent = 2  // spaces to indent result lines
	nameWidth    = 35 // Base width for repository name
)

// 🎯 FormatResultLine formats a result as a coloured console line
func FormatResultLine(res Result) string {
	var prefix string
	outcome := res.Outcome
	switch Categorize(res) {
	case CategoryOpened:
		prefix = color.GreenString("✓")
	case CategoryRefused:
		prefix = color.YellowString("!")
		outcome = color.YellowString(outcome)
	case CategoryDryRun:
		prefix = color.CyanString("~")
	case CategoryFailed:
		prefix = color.RedString("✗")
		outcome = color.RedString(outcome)
	default:
		prefix = color.HiBlackString("-")
	}

	return fmt.Sprintf("%s%s %-*s %s",
		strings.Repeat(" ", resultIndent),
		prefix,
		nameWidth, res.Repository,
		outcome,
	)
}
