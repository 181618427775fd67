package list

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cardview/internal/card"
	"cardview/internal/state"
	"cardview/internal/views"
)

type options struct {
	fixed      bool
	subfolders bool
	sortBy     string
}

// NewCmdList builds the list command, which prints the current card set.
func NewCmdList(s *state.State) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "list [card-set]",
		Aliases: []string{"ls", "l"},
		Short:   "Print the cards of the current (or named) card set.",
		Long: heredoc.Doc(`
			Without arguments, list resolves and prints the current card set. With an
			argument, it first selects that card set on the current source: a folder
			path for the folder source, a tag expression for the tag source.

			  cardview list
			  cardview list projects/go
			  cardview list inbox --fixed
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.fixed, "fixed", "f", false, "Pin the selection (ignore active-file changes).")
	cmd.Flags().BoolVar(&opts.subfolders, "subfolders", false, "Include subfolders for folder card sets.")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "path", "Sort order: path, title, or modified.")

	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State, opts options) error {
	m := s.Manager

	if cmd.Flags().Changed("subfolders") {
		if err := m.SetIncludeSubfolders(opts.subfolders); err != nil {
			return err
		}
	}

	if len(args) > 0 {
		var fixed *bool
		if cmd.Flags().Changed("fixed") {
			fixed = &opts.fixed
		}
		if err := m.SelectCardSet(args[0], fixed); err != nil {
			return fmt.Errorf("selecting card set %q: %w", args[0], err)
		}
	}

	cards, err := m.GetCards()
	if err != nil {
		return err
	}
	sortCards(cards, opts.sortBy)

	fmt.Println(views.StatusHeader(m.Source(), m.Binding()))
	fmt.Println()

	if len(cards) == 0 {
		fmt.Println("no cards in the current set")
		return nil
	}

	for _, c := range cards {
		line := fmt.Sprintf("%s  (%s)", c.Title, c.Path)
		if len(c.Tags) > 0 {
			line += "  " + strings.Join(c.Tags, " ")
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d card(s)\n", len(cards))
	return nil
}

func sortCards(cards []card.Card, by string) {
	switch by {
	case "title":
		sort.SliceStable(cards, func(i, j int) bool {
			return strings.ToLower(cards[i].Title) < strings.ToLower(cards[j].Title)
		})
	case "modified":
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].ModifiedAt.After(cards[j].ModifiedAt)
		})
	default:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Path < cards[j].Path
		})
	}
}
