package tags

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cardview/internal/source"
	"cardview/internal/state"
	"cardview/internal/tagdex"
)

// NewCmdTags builds the tags command, which lists every tag in the vault with
// its card count.
func NewCmdTags(s *state.State) *cobra.Command {
	var withMarker bool

	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"t"},
		Short:   "List all vault tags with card counts.",
		Long: heredoc.Doc(`
			Tags walks the vault and prints every tag found in frontmatter or note
			bodies, together with the number of cards carrying it.

			  cardview tags
			  cardview tags --marker
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(s, withMarker)
		},
	}

	cmd.Flags().BoolVar(&withMarker, "marker", false, "Prefix tags with the # marker.")

	return cmd
}

func run(s *state.State, withMarker bool) error {
	names, counts, err := source.Tags(s.Vault)
	if err != nil {
		return err
	}

	for _, name := range names {
		display := name
		if withMarker {
			display = tagdex.Normalize(name)
		}
		fmt.Printf("%s  (%d)\n", display, counts[name])
	}
	fmt.Printf("\n%d tag(s)\n", len(names))
	return nil
}
