package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/worm-world/worm-world-sub000/internal/filter"
	"github.com/worm-world/worm-world-sub000/internal/store"
)

// QueryOptions holds flags for the query, count and delete commands.
type QueryOptions struct {
	*RootOptions
	Filter string
	Limit  uint64
	Offset uint64
}

const filterHelp = `The filter document is YAML or JSON:

  groups:                 # AND of OR-groups
    - - {field: sys_gene_name, predicate: {kind: equal, value: F27D9.1}}
      - {field: sys_gene_name, predicate: {kind: null}}
  order_by:
    - {field: name, direction: desc, collation: nocase}
  limit: 10
  offset: 20

Predicate kinds: range, less_than, greater_than, equal, not_equal, like,
null, not_null, true, false.`

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <entity>",
		Short: "List records matching a filter",
		Long: "List the records of an entity that match a filter document.\n\n" + filterHelp + `

Examples:
  wormdb query alleles --filter by-gene.yaml
  wormdb query tasks --limit 5 --format json
  echo '{"groups":[[{"field":"wild","predicate":{"kind":"true"}}]]}' | wormdb query phenotypes -f -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}
	addFilterFlags(cmd, opts, true)
	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count <entity>",
		Short: "Count records matching a filter",
		Long: `Count the records of an entity that match a filter document.
Sort keys, limit and offset in the document are ignored.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(opts, args[0], cmd)
		},
	}
	addFilterFlags(cmd, opts, false)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <entity>",
		Short: "Delete records matching a filter",
		Long: `Delete the records of an entity that match a filter document.
A filter with at least one group is required; expressions of deleted
alleles and phenotypes are removed with them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], cmd)
		},
	}
	addFilterFlags(cmd, opts, false)
	_ = cmd.MarkFlagRequired("filter")
	return cmd
}

func addFilterFlags(cmd *cobra.Command, opts *QueryOptions, paging bool) {
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "filter document file (- for stdin)")
	if paging {
		cmd.Flags().Uint64Var(&opts.Limit, "limit", 0, "maximum rows (overrides the document)")
		cmd.Flags().Uint64Var(&opts.Offset, "offset", 0, "rows to skip (overrides the document)")
	}
}

func runQuery(opts *QueryOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s, entity, doc, err := opts.prepare(f, cmd, name)
	if err != nil {
		return err
	}
	defer s.Close()

	if cmd.Flags().Changed("limit") {
		doc.Limit = &opts.Limit
	}
	if cmd.Flags().Changed("offset") {
		doc.Offset = &opts.Offset
	}

	rows, err := entity.Query(cmd.Context(), doc)
	if err != nil {
		return readFailed(f, entity.Name, err)
	}
	return f.Rows(entity.Name, entity.Columns, rows)
}

func runCount(opts *QueryOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s, entity, doc, err := opts.prepare(f, cmd, name)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := entity.Count(cmd.Context(), doc)
	if err != nil {
		return readFailed(f, entity.Name, err)
	}
	if f.Format == "json" {
		return f.Success(map[string]any{"entity": entity.Name, "count": n})
	}
	return f.Success(humanize.Comma(n))
}

func runDelete(opts *QueryOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s, entity, doc, err := opts.prepare(f, cmd, name)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := entity.Delete(cmd.Context(), doc)
	if err != nil {
		var derr *filter.DecodeError
		switch {
		case errors.As(err, &derr):
			return filterFailed(f, err)
		case errors.Is(err, store.ErrUnfilteredDelete):
			return f.fail(ExitCommandError, ErrCodeFilter, err.Error(), nil)
		}
		return f.fail(ExitFailure, ErrCodeWrite, err.Error(), nil)
	}
	if f.Format == "json" {
		return f.Success(map[string]any{"entity": entity.Name, "deleted": n})
	}
	return f.Success(fmt.Sprintf("Deleted %s %s from %s", humanize.Comma(n), plural(int(n), "row", "rows"), entity.Table))
}

func (o *RootOptions) prepare(f *OutputFormatter, cmd *cobra.Command, name string) (*session, store.Entity, filter.Document, error) {
	s, err := o.open(f)
	if err != nil {
		return nil, store.Entity{}, filter.Document{}, err
	}
	entity, err := s.entity(f, name)
	if err != nil {
		s.Close()
		return nil, store.Entity{}, filter.Document{}, err
	}

	path, _ := cmd.Flags().GetString("filter")
	doc, err := readFilter(f, cmd, path)
	if err != nil {
		s.Close()
		return nil, store.Entity{}, filter.Document{}, err
	}
	return s, entity, doc, nil
}

func readFailed(f *OutputFormatter, entity string, err error) error {
	var derr *filter.DecodeError
	if errors.As(err, &derr) {
		return filterFailed(f, err)
	}
	return f.fail(ExitFailure, ErrCodeQuery, err.Error(), map[string]string{"entity": entity})
}
