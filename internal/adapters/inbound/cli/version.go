package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/kraftstore/internal/domain"
)

var revisions domain.RevisionSource = gitinfo.New()

// buildCommit prefers the commit stamped at link time and falls back to the
// checkout the binary runs from.
func buildCommit(dir string) string {
	if commit != "none" {
		return commit
	}
	if hash, err := revisions.CommitHash(dir); err == nil && hash != "" {
		return gitinfo.Short(hash)
	}
	return commit
}

func newVersionCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show kraftstore version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "kraftstore %s (%s)\n", version, buildCommit(*dir))
			return nil
		},
	}
}
