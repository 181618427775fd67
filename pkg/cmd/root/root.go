package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardview/internal/state"
	"cardview/pkg/cmd/list"
	"cardview/pkg/cmd/pick"
	"cardview/pkg/cmd/searchcmd"
	"cardview/pkg/cmd/sourcecmd"
	"cardview/pkg/cmd/tags"
	"cardview/pkg/cmd/watch"
)

// NewCmdRoot assembles the command tree.
func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "cardview",
		Aliases: []string{"cv"},
		Short:   "Browse a markdown note vault as card sets selected by folder, tag, or search.",
		Long: heredoc.Doc(`
			cardview shows the notes of a vault as cards. Which notes are visible is
			decided by one of three strategies: a folder, a tag expression, or a
			free-text search. A selection either follows the note you are working on
			(active) or stays pinned until you change it (fixed).

			  cardview list projects --fixed
			  cardview search "state machine" --type content
			  cardview source tag --select inbox
		`),
		RunE: list.NewCmdList(s).RunE,
	}

	cmd.PersistentFlags().Bool("no-color", false, "Disable styled output.")
	viper.BindPFlag("no_color", cmd.PersistentFlags().Lookup("no-color"))

	cmd.AddCommand(
		list.NewCmdList(s),
		searchcmd.NewCmdSearch(s),
		sourcecmd.NewCmdSource(s),
		tags.NewCmdTags(s),
		pick.NewCmdPick(s),
		watch.NewCmdWatch(s),
	)

	return cmd, nil
}
