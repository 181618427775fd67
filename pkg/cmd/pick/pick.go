package pick

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"cardview/internal/fzf"
	"cardview/internal/source"
	"cardview/internal/state"
	"cardview/internal/views"
)

// NewCmdPick builds the pick command, an interactive selector over card sets
// and cards.
func NewCmdPick(s *state.State) *cobra.Command {
	var fixed bool

	cmd := &cobra.Command{
		Use:     "pick",
		Aliases: []string{"p"},
		Short:   "Interactively pick a card set, then a card.",
		Long: heredoc.Doc(`
			Pick opens a fuzzy finder over the card sets of the current source
			(folders or tags), selects the chosen one, then opens a second finder
			over the resulting cards with a markdown preview.

			  cardview pick
			  cardview pick --fixed
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, fixed)
		},
	}

	cmd.Flags().BoolVarP(&fixed, "fixed", "f", false, "Fix the picked card set.")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, fixed bool) error {
	m := s.Manager
	picker := fzf.NewPicker(s.Vault, views.StatusHeader(m.Source(), m.Binding()))

	var (
		selector string
		err      error
	)
	switch m.Source().Kind {
	case source.KindFolder:
		selector, err = picker.PickFolder()
	case source.KindTag:
		selector, err = picker.PickTag()
	default:
		return fmt.Errorf("pick works with folder and tag sources, not %s", m.Source().Kind)
	}
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return err
	}

	var fixedPtr *bool
	if cmd.Flags().Changed("fixed") {
		fixedPtr = &fixed
	}
	if err := m.SelectCardSet(selector, fixedPtr); err != nil {
		return err
	}

	cards, err := m.GetCards()
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println("no cards in the selected set")
		return nil
	}

	picked, err := picker.PickCard(cards)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return err
	}

	fmt.Printf("%s  (%s)\n", picked.Title, picked.Path)
	return nil
}
