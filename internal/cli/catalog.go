package cli

import (
	"fmt"

	"github.com/ralt/ventus-clone/internal/models"
	"github.com/ralt/ventus-clone/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewCatalogCmd creates the catalog command
func NewCatalogCmd(config *models.BootstrapConfig) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the repository catalog as YAML",
		Long: `Prints the catalog that would be used, resolved paths included.
The output can be edited and passed back with --catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(config)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cat)
			if err != nil {
				return fmt.Errorf("failed to encode catalog: %w", err)
			}

			if output != "" {
				if err := utils.WriteFile(output, out, 0644); err != nil {
					return fmt.Errorf("failed to write catalog: %w", err)
				}
				logrus.Infof("Catalog written to %s", output)
				return nil
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the catalog to a file instead of stdout")

	return cmd
}
