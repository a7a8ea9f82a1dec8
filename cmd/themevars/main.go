package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/jsvensson/themevars"
	"github.com/jsvensson/themevars/internal/format"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagConfig  string
	flagOut     string
	flagContent []string
	flagCheck   bool
	flagVerbose int
	version     = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:     "themevars",
	Short:   "Generate CSS custom properties and utilities from named themes",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [tokens...]",
	Short: "Generate CSS for utility tokens",
	Long:  "Generate CSS for the given utility tokens and the tokens found in --content files. The theme variables used by the tokens are emitted first.",
	RunE:  runGenerate,
}

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List the variables a config defines",
	RunE:  runVars,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format HCL config files",
	Long:  "Format one or more HCL config files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")
	generateCmd.Flags().StringVar(&flagConfig, "config", "themevars.hcl", "path to the HCL or TOML config file")
	generateCmd.Flags().StringVar(&flagOut, "out", "", "write CSS to this file instead of stdout")
	generateCmd.Flags().StringArrayVar(&flagContent, "content", nil, "scan a file for tokens (can be repeated)")
	varsCmd.Flags().StringVar(&flagConfig, "config", "themevars.hcl", "path to the HCL or TOML config file")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	project, err := themevars.Load(flagConfig)
	if err != nil {
		return err
	}

	tokens := append([]string(nil), args...)
	for _, path := range flagContent {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading content: %w", err)
		}
		tokens = append(tokens, themevars.ExtractTokens(string(data))...)
	}

	css, err := project.Generate(context.Background(), tokens)
	if err != nil {
		return err
	}

	if flagOut == "" {
		fmt.Fprint(cmd.OutOrStdout(), css)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(flagOut), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(flagOut, []byte(css), 0o644); err != nil {
		return fmt.Errorf("writing CSS: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Generated %s\n", flagOut)
	return nil
}

func runVars(cmd *cobra.Command, args []string) error {
	project, err := themevars.Load(flagConfig)
	if err != nil {
		return err
	}

	themes := project.Themes()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "VARIABLE")
	for _, name := range themes {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)

	for _, v := range project.Variables() {
		fmt.Fprint(w, v.Name)
		for _, name := range themes {
			value, ok := v.Values[name]
			if !ok {
				value = "-"
			}
			fmt.Fprintf(w, "\t%s", value)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		changed, err := format.File(path, flagCheck)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			hasErrors = true
			continue
		}
		if changed {
			fmt.Fprintln(cmd.OutOrStdout(), path)
			needsFormatting = true
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
