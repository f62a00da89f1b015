// Copyright 2020-2021 Dolthub, Inc.
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

// Package cmd is the wpdxf CLI (spec section 6): retrieve builds the local
// corpus, run executes the wrap loop over a benchmark. One file per
// subcommand, a newXCmd constructor per subcommand, flags bound directly on
// cobra's pflag.FlagSet -- the layout the cue-lang/cue pack member's
// cmd/cue/cmd uses.
package cmd

import (
	"github.com/spf13/cobra"
)

// New builds the root wpdxf command with its subcommands wired in.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "wpdxf",
		Short:         "web-page data transformation by example",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newRetrieveCmd())
	root.AddCommand(newRunCmd())

	return root
}
