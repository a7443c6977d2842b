package cli

import (
	"github.com/ralt/ventus-clone/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var config models.BootstrapConfig

	rootCmd := &cobra.Command{
		Use:   "ventus-clone",
		Short: "Clone the Ventus GPGPU repositories into a workspace",
		Long: `ventus-clone prepares a Ventus development workspace.

Each repository of the catalog is cloned over https or ssh, or copied from
a prebuilt toolchain when one is available. Branches are switched where the
catalog asks for it, the gpu-rodinia dataset is fetched, and the build and
environment scripts are staged into the workspace root.

Repositories:
  llvm, pocl, ocl-icd, spike, driver, rodinia, gpgpu, simulator`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate configuration
			if err := validateConfig(&config); err != nil {
				return err
			}

			logrus.Debugf("Configuration: %+v", config)

			return runBootstrap(cmd.Context(), &config)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&config.CatalogPath, "catalog", "c", "", "YAML catalog to use instead of the built-in one")
	rootCmd.PersistentFlags().StringVar(&config.Host, "host", "", "Git host for clone URLs (defaults to the catalog's host)")

	// Workspace flags
	rootCmd.Flags().StringVarP(&config.TargetDir, "target", "t", "", "Directory to clone into (prompted for when empty)")
	rootCmd.Flags().StringVar(&config.DefaultTargetDir, "default-target", "./ventus", "Default answer of the directory prompt")
	rootCmd.Flags().StringVar(&config.ScriptsDir, "scripts-dir", ".", "Directory holding build-ventus.sh and env.sh")

	// Clone flags
	rootCmd.Flags().StringSliceVar(&config.Only, "only", nil, "Only acquire these repositories (comma separated)")
	rootCmd.Flags().BoolVarP(&config.AssumeDefaults, "yes", "y", false, "Accept every default and never retry failed clones")

	// Download flags
	rootCmd.Flags().StringVar(&config.KeyringPath, "keyring", "", "OpenPGP public keyring for signed archives")
	rootCmd.Flags().IntVar(&config.HTTPRetries, "http-retries", 3, "Transport retries for archive downloads")

	// Add subcommands
	rootCmd.AddCommand(NewCatalogCmd(&config))

	return rootCmd
}
