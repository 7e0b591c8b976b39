package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-scheduling/internal/repository/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := postgres.NewDB(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := postgres.NewMigrator(db).Up(cmd.Context())
			if err != nil {
				return err
			}
			l.Info("migrations applied", "count", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := postgres.NewDB(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := postgres.NewMigrator(db).Status(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
			for _, st := range statuses {
				at := "pending"
				if st.AppliedAt != nil {
					at = st.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%03d\t%s\t%s\n", st.Version, st.Name, at)
			}
			return w.Flush()
		},
	})
	return cmd
}
