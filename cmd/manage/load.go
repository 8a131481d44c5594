package main

import (
	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/fixtures"
	"github.com/pageza/foodgram/backend/internal/service"
)

func newLoadIngredientsCmd(a *app) *cobra.Command {
	var file string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "load-ingredients",
		Short: "Import ingredients from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := fixtures.ReadIngredientsFile(file)
			if err != nil {
				return err
			}
			_, db, err := a.setup()
			if err != nil {
				return err
			}

			created, err := service.NewCatalogService(db).ImportIngredients(cmd.Context(), ingredients, batchSize)
			if err != nil {
				return err
			}
			cmd.Printf("Loaded %d ingredients (%d new)\n", len(ingredients), created)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data/ingredients.json", "Path to the ingredients JSON file")
	cmd.Flags().IntVar(&batchSize, "batch-size", 500, "Rows per insert statement")
	return cmd
}

func newLoadTagsCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "load-tags",
		Short: "Create or update tags from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := fixtures.ReadTagsFile(file)
			if err != nil {
				return err
			}
			_, db, err := a.setup()
			if err != nil {
				return err
			}

			if err := service.NewCatalogService(db).UpsertTags(cmd.Context(), tags); err != nil {
				return err
			}
			cmd.Printf("Loaded %d tags\n", len(tags))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data/tags.yaml", "Path to the tags YAML file")
	return cmd
}
