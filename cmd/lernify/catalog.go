package main

import (
	"fmt"

	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/observability"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect roadmap catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog file against the catalog schema",
	Long:  "Validates a JSON or YAML roadmap catalog against the embedded JSON Schema and the catalog's structural rules.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogValidate,
}

var catalogShowFile string

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the domains, steps and scoring policy of a catalog",
	RunE:  runCatalogShow,
}

func init() {
	catalogShowCmd.Flags().StringVarP(&catalogShowFile, "file", "f", "", "Catalog file (default built-in)")

	catalogCmd.AddCommand(catalogValidateCmd, catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	steps := 0
	for _, name := range cat.Domains() {
		ids, err := cat.StepIDs(name)
		if err != nil {
			return err
		}
		steps += len(ids)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d domains, %d steps\n", args[0], len(cat.Domains()), steps)
	return nil
}

func runCatalogShow(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog(catalogShowFile)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCatalog(cat)
	return nil
}
