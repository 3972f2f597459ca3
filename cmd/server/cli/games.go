package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hongminglow/arcade-be/internal/catalog"
	"github.com/hongminglow/arcade-be/internal/config"
	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Manage the game catalog",
	}
	cmd.AddCommand(newGamesSeedCmd())
	return cmd
}

func newGamesSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default catalog (or --file) skipping existing game ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := loadCatalog(file)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(_ config.Config, store storage.Store, logger *slog.Logger) error {
				res, err := catalog.Seed(cmd.Context(), store, games)
				if err != nil {
					return err
				}
				logger.Info("catalog seeded", "created", len(res.Created), "skipped", len(res.Skipped))
				fmt.Fprintf(cmd.OutOrStdout(), "created: %s\nskipped: %s\n",
					strings.Join(res.Created, ", "), strings.Join(res.Skipped, ", "))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog file (default: built-in list)")
	return cmd
}

func loadCatalog(path string) ([]models.Game, error) {
	if path == "" {
		return catalog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return catalog.Parse(f)
}
