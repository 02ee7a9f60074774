package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dzoniops/villa-pricing-service/config"
	"github.com/dzoniops/villa-pricing-service/db"
	"github.com/dzoniops/villa-pricing-service/utils"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the villas of a YAML villa file into the database",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML villa file (default is $SEED_FILE)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := seedFile
	if path == "" {
		path = cfg.SeedFile
	}
	if path == "" {
		return errors.New("no villa file: pass --file or set SEED_FILE")
	}

	utils.InitValidator()

	file, err := db.LoadSeedFile(path)
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg.Postgres)
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ids, err := db.Seed(cmd.Context(), db.NewStore(conn), file)
	if err != nil {
		return err
	}

	for i, id := range ids {
		fmt.Fprintf(cmd.OutOrStdout(), "seeded villa %d: %s\n", id, file.Villas[i].Name)
	}
	return nil
}
