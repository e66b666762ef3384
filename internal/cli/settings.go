package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"seenkeeper/internal/models"
	"seenkeeper/internal/services"
)

func NewSettingsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change alert settings",
	}
	cmd.AddCommand(newSettingsShowCommand(opts))
	cmd.AddCommand(newSettingsSetCommand(opts))
	return cmd
}

func printAlertSettings(w io.Writer, s models.AlertSettings) {
	fmt.Fprintf(w, "%-12s %d\n", "ratings", s.Ratings)
	fmt.Fprintf(w, "%-12s %d\n", "badRate", s.BadRate)
	fmt.Fprintf(w, "%-12s %d\n", "listedDays", s.ListedDays)
	fmt.Fprintf(w, "%-12s %d\n", "updatedDays", s.UpdatedDays)
	fmt.Fprintf(w, "%-12s %t\n", "shipping47", s.Shipping47)
	fmt.Fprintf(w, "%-12s %t\n", "shipping8", s.Shipping8)
}

func newSettingsShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective alert settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			s := app.Service.GetAlertSettings(cmd.Context())
			return opts.printer(cmd).Print(s, func(w io.Writer) {
				printAlertSettings(w, s)
			})
		},
	}
}

func newSettingsSetCommand(opts *RootOptions) *cobra.Command {
	var next models.AlertSettings
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change alert settings; unspecified fields keep their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			s := mergeSettingFlags(cmd, app.Service, next)
			if err := app.Service.SaveAlertSettings(cmd.Context(), s); err != nil {
				return err
			}
			return opts.printer(cmd).Print(s, func(w io.Writer) {
				printAlertSettings(w, s)
			})
		},
	}
	cmd.Flags().IntVar(&next.Ratings, "ratings", 0, "minimum seller ratings")
	cmd.Flags().IntVar(&next.BadRate, "bad-rate", 0, "maximum bad rating percentage")
	cmd.Flags().IntVar(&next.ListedDays, "listed-days", 0, "alert when listed longer than this many days")
	cmd.Flags().IntVar(&next.UpdatedDays, "updated-days", 0, "alert when not updated for this many days")
	cmd.Flags().BoolVar(&next.Shipping47, "shipping47", false, "alert on 4-7 day shipping")
	cmd.Flags().BoolVar(&next.Shipping8, "shipping8", false, "alert on 8+ day shipping")
	return cmd
}

// mergeSettingFlags starts from the stored record so the save stays a full
// record write.
func mergeSettingFlags(cmd *cobra.Command, svc services.StorageServiceInterface, flags models.AlertSettings) models.AlertSettings {
	s := svc.GetAlertSettings(cmd.Context())
	f := cmd.Flags()
	if f.Changed("ratings") {
		s.Ratings = flags.Ratings
	}
	if f.Changed("bad-rate") {
		s.BadRate = flags.BadRate
	}
	if f.Changed("listed-days") {
		s.ListedDays = flags.ListedDays
	}
	if f.Changed("updated-days") {
		s.UpdatedDays = flags.UpdatedDays
	}
	if f.Changed("shipping47") {
		s.Shipping47 = flags.Shipping47
	}
	if f.Changed("shipping8") {
		s.Shipping8 = flags.Shipping8
	}
	return s
}
