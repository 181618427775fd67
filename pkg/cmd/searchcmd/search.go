package searchcmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"cardview/internal/search"
	"cardview/internal/state"
)

type options struct {
	fieldType     string
	caseSensitive bool
	fmKey         string
	fields        []string
	keep          bool
}

// NewCmdSearch builds the search command, which enters search mode over the
// current card set.
func NewCmdSearch(s *state.State) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "search <query>",
		Aliases: []string{"s", "find"},
		Short:   "Search the current card set and print the matches.",
		Long: heredoc.Doc(`
			Search evaluates a query against each card of the current set. The field
			type selects what is compared: filename, title, content, path, folder,
			tag, frontmatter, create, modify, date, regex, file, or complex.

			Multiple --field rows combine with OR semantics. After printing, search
			mode is exited and the prior selection restored unless --keep is given.

			  cardview search "state machine" --type content
			  cardview search 2024-01-05 --type create
			  cardview search status --type frontmatter --key status
			  cardview search x --field filename:x --field content:y
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.fieldType, "type", "t", "file", "Field type to match against.")
	cmd.Flags().BoolVarP(&opts.caseSensitive, "case-sensitive", "c", false, "Match case sensitively.")
	cmd.Flags().StringVarP(&opts.fmKey, "key", "k", "", "Frontmatter key for the frontmatter field type.")
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "Additional type:query rows, OR-combined.")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "Stay in search mode after printing.")

	return cmd
}

func run(args []string, s *state.State, opts options) error {
	fields, err := buildFields(args, opts)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("a query or at least one --field row is required")
	}

	m := s.Manager
	if err := m.EnterSearchFields(fields, opts.caseSensitive); err != nil {
		return err
	}

	cards, err := m.GetCards()
	if err != nil {
		return err
	}

	for _, c := range cards {
		fmt.Printf("%s  (%s)\n", c.Title, c.Path)
	}
	fmt.Printf("\n%d match(es)\n", len(cards))

	if opts.keep {
		return nil
	}
	return m.ExitSearch()
}

func buildFields(args []string, opts options) ([]search.Field, error) {
	var fields []search.Field

	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		ft, ok := search.ParseFieldType(opts.fieldType)
		if !ok {
			return nil, fmt.Errorf("unknown field type %q", opts.fieldType)
		}
		fields = append(fields, search.Field{
			Type:           ft,
			Query:          args[0],
			FrontMatterKey: opts.fmKey,
		})
	}

	for _, row := range opts.fields {
		typeName, query, found := strings.Cut(row, ":")
		if !found {
			return nil, fmt.Errorf("malformed --field row %q, want type:query", row)
		}
		ft, ok := search.ParseFieldType(typeName)
		if !ok {
			return nil, fmt.Errorf("unknown field type %q in --field row", typeName)
		}
		fields = append(fields, search.Field{
			Type:           ft,
			Query:          query,
			FrontMatterKey: opts.fmKey,
		})
	}

	return fields, nil
}
