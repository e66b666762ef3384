package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"seenkeeper/internal/services"
)

var errWrongPassphrase = errors.New("wrong passphrase")

func NewPremiumCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Premium feature status",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print whether premium features are unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			unlocked := app.Service.IsPremiumUnlocked(cmd.Context())
			return opts.printer(cmd).Print(map[string]bool{"unlocked": unlocked}, func(w io.Writer) {
				printPremium(w, unlocked)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unlock <passphrase>",
		Short: "Unlock premium features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if !services.MatchPassphrase([]byte(app.Conf.Premium.Passphrase), args[0]) {
				return errWrongPassphrase
			}
			if err := app.Service.UnlockPremium(cmd.Context()); err != nil {
				return err
			}
			return opts.printer(cmd).Print(map[string]bool{"unlocked": true}, func(w io.Writer) {
				printPremium(w, true)
			})
		},
	})
	return cmd
}

func printPremium(w io.Writer, unlocked bool) {
	if unlocked {
		fmt.Fprintln(w, "premium: unlocked")
		return
	}
	fmt.Fprintln(w, "premium: locked")
}
