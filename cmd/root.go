package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sambabib/env-checker/pkg/config"
	"github.com/sambabib/env-checker/pkg/logger"
	"github.com/sambabib/env-checker/pkg/output"
	"github.com/sambabib/env-checker/pkg/pip"
	"github.com/sambabib/env-checker/pkg/validator"
)

// Version is set during build using ldflags
var Version = "dev"

var (
	pipExecutable string
	configPath    string
	projectDir    string
	format        string // output format: text, json or sarif
	reportFile    string
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "envcheck",
	Short:         "Validates installed package dependencies for CI",
	Long:          `Environment Checker validates the installed Python packages of a CI environment: it checks for dependency conflicts, verifies version bounds on critical packages, and writes a JSON inventory report.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := config.LoadPyProject(cfg, projectDir); err != nil {
			return err
		}

		// Command-line flags take precedence over every config source.
		if pipExecutable != "" {
			cfg.Pip = pipExecutable
		}
		if reportFile != "" {
			cfg.Report.File = reportFile
		}
		if cmd.Flags().Changed("format") {
			cfg.Output.Format = format
		}

		v := validator.New(pip.NewCLI(cfg.Pip), cfg)
		summary := v.Run(cmd.Context())

		logger.Infof("")
		switch cfg.Output.Format {
		case "json":
			out, err := output.GenerateJSONSummary(summary)
			if err != nil {
				return fmt.Errorf("failed to marshal summary to JSON: %w", err)
			}
			fmt.Println(string(out))
		case "sarif":
			out, err := output.GenerateSarifReport(summary, projectDir, Version)
			if err != nil {
				return fmt.Errorf("failed to marshal summary to SARIF: %w", err)
			}
			fmt.Println(string(out))
		case "text", "":
			output.PrintTextSummary(os.Stdout, summary)
		default:
			return fmt.Errorf("unknown output format: %s", cfg.Output.Format)
		}

		if !summary.Passed {
			return validator.ErrValidationFailed
		}
		logger.Infof("")
		logger.Infof("All dependency checks passed")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&pipExecutable, "pip", "", "Pip executable to invoke (e.g. pip3)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file (default .envcheck.yaml)")
	rootCmd.Flags().StringVarP(&projectDir, "project", "p", ".", "Project directory searched for pyproject.toml")
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "Summary format: text, json or sarif")
	rootCmd.Flags().StringVarP(&reportFile, "output", "o", "", "Dependency report file path (default dependency_report.json)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
