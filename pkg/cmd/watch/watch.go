package watch

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cardview/internal/card"
	"cardview/internal/state"
	"cardview/internal/views"
)

// NewCmdWatch builds the watch command, which follows vault changes and
// reprints the card set whenever it changes.
func NewCmdWatch(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Watch the vault and reprint the card set on changes.",
		Long: heredoc.Doc(`
			Watch follows filesystem events under the vault. When a markdown file
			is created, written, removed, or renamed, the current card set is
			re-resolved, and if it changed the new set is printed. Interrupt with
			Ctrl-C.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(s)
		},
	}

	return cmd
}

func run(s *state.State) error {
	m := s.Manager

	cards, err := m.GetCards()
	if err != nil {
		return err
	}
	printSet(s, cards)

	m.OnCardSetChanged(func(cards []card.Card) {
		printSet(s, cards)
	})

	if s.Watcher == nil {
		return fmt.Errorf("vault watcher is not available")
	}

	go s.Watcher.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	<-sig
	log.Println("stopping watcher")
	return s.Watcher.Close()
}

func printSet(s *state.State, cards []card.Card) {
	m := s.Manager
	fmt.Println(views.StatusHeader(m.Source(), m.Binding()))
	for _, c := range cards {
		fmt.Printf("%s  (%s)\n", c.Title, c.Path)
	}
	fmt.Printf("%d card(s)\n\n", len(cards))
}
