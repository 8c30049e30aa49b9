package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/infra/config"
	"boilerfunnel/internal/infra/db/mongo"
	"boilerfunnel/internal/infra/fixtures"
)

var errSeedNeedsMongo = errors.New("seed writes to MongoDB: set MONGODB_URI or STORAGE_MODE=mongo")

func seedCmd() *cobra.Command {
	var (
		file  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog fixtures into MongoDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.UsesMongo() {
				return errSeedNeedsMongo
			}
			items, err := fixtures.LoadProductsFile(file)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
			if err != nil {
				return err
			}
			defer client.Close(context.Background())

			n, err := seedCatalog(ctx, mongo.NewProductRepository(client.DB), items, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products into %s\n", n, cfg.MongoDB)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "data/products.yaml", "Fixture file (YAML or JSON)")
	cmd.Flags().BoolVar(&force, "force", false, "Seed even when the catalog already has products")
	return cmd
}

// seedCatalog skips a populated catalog unless force is set.
func seedCatalog(ctx context.Context, repo catalog.Repository, items []catalog.CreateParams, force bool) (int, error) {
	if !force {
		existing, err := repo.List(ctx)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}
	return fixtures.SeedProducts(ctx, repo, items, time.Now())
}
