package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-scheduling/internal/service/seed"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
	"github.com/jwalitptl/hospital-scheduling/pkg/security"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample data set; safe to run repeatedly",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := loadConfig()
			if err != nil {
				return err
			}
			m := metrics.NewMetrics(cfg.Metrics.Namespace, "seed", prometheus.NewRegistry())
			repos, db, err := openStorage(cmd.Context(), cfg, m)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			res, err := seed.NewSeeder(repos, security.NewBcryptHasher(cfg.Auth.BcryptCost), *l.Zerolog()).Run(cmd.Context())
			if err != nil {
				return err
			}
			l.Zerolog().Info().
				Int("users", res.Users).
				Int("departments", res.Departments).
				Int("clinicians", res.Clinicians).
				Int("patients", res.Patients).
				Int("links", res.Links).
				Int("procedure_types", res.ProcedureTypes).
				Int("procedures", res.Procedures).
				Msg("seed complete")
			return nil
		},
	}
}
