package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seenkeeper/internal/itemid"
	"seenkeeper/internal/models"
)

func NewItemsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect and edit viewed items",
	}
	cmd.AddCommand(newItemsListCommand(opts))
	cmd.AddCommand(newItemsCountCommand(opts))
	cmd.AddCommand(newItemsAddCommand(opts))
	cmd.AddCommand(newItemsClearCommand(opts))
	return cmd
}

func newItemsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List viewed items with the time they were first seen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			items := app.Service.GetViewedItems(cmd.Context())
			return opts.printer(cmd).Print(items, func(w io.Writer) {
				printItems(w, items)
			})
		},
	}
}

func printItems(w io.Writer, items models.ViewedItems) {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "%s\t%s\n", id, time.UnixMilli(items[id]).UTC().Format(time.RFC3339))
	}
}

func newItemsCountCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of viewed items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			n := app.Service.GetViewedItemsCount(cmd.Context())
			return opts.printer(cmd).Print(map[string]int{"count": n}, func(w io.Writer) {
				fmt.Fprintln(w, n)
			})
		},
	}
}

func newItemsAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add [url-or-id...]",
		Short: "Register listing URLs or ids; reads stdin when no arguments are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, "\n")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(data)
			}

			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Registration.Register(cmd.Context(), text)
			if err != nil {
				return err
			}
			return opts.printer(cmd).Print(result, func(w io.Writer) {
				printRegistration(w, result)
			})
		},
	}
}

func printRegistration(w io.Writer, r itemid.Result) {
	fmt.Fprintf(w, "added %d", r.Added)
	if r.Skipped > 0 {
		fmt.Fprintf(w, ", %d already registered", r.Skipped)
	}
	if r.Invalid > 0 {
		fmt.Fprintf(w, ", %d invalid", r.Invalid)
	}
	fmt.Fprintln(w)
}

var errClearNotConfirmed = errors.New("refusing to clear viewed items without --yes")

func newItemsClearCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every viewed item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errClearNotConfirmed
			}
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			removed := app.Service.GetViewedItemsCount(cmd.Context())
			if !app.Service.ClearAllViewedItems(cmd.Context()) {
				return errors.New("clear failed, see storage log")
			}
			return opts.printer(cmd).Print(map[string]int{"removed": removed}, func(w io.Writer) {
				fmt.Fprintf(w, "removed %d items\n", removed)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
