package sourcecmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cardview/internal/source"
	"cardview/internal/state"
	"cardview/internal/views"
)

type options struct {
	selector string
	fixed    bool
}

// NewCmdSource builds the source command, which switches the strategy used to
// resolve the card set.
func NewCmdSource(s *state.State) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:       "source <folder|tag|search>",
		Aliases:   []string{"src"},
		Short:     "Switch the card set source between folder, tag, and search.",
		ValidArgs: []string{"folder", "tag", "search"},
		Long: heredoc.Doc(`
			Source changes how the card set is derived. Switching to folder or tag
			starts from an empty selection (use --select to pick one right away);
			switching to search enters search mode with an empty query. The new
			source type is saved as the default for later sessions, except for
			search.

			  cardview source tag
			  cardview source folder --select projects --fixed
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.selector, "select", "s", "", "Card set to select after switching.")
	cmd.Flags().BoolVarP(&opts.fixed, "fixed", "f", false, "Fix the selection after switching.")

	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State, opts options) error {
	kind, err := source.ParseKind(args[0])
	if err != nil {
		return err
	}

	m := s.Manager
	if err := m.ChangeSource(kind); err != nil {
		return err
	}

	if opts.selector != "" {
		var fixed *bool
		if cmd.Flags().Changed("fixed") {
			fixed = &opts.fixed
		}
		if err := m.SelectCardSet(opts.selector, fixed); err != nil {
			return err
		}
	}

	cards, err := m.GetCards()
	if err != nil {
		return err
	}

	fmt.Println(views.StatusHeader(m.Source(), m.Binding()))
	fmt.Printf("%d card(s)\n", len(cards))
	return nil
}
