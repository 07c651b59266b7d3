package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/report"
)

func exportCmd() *cobra.Command {
	var (
		in, org, format, out, playbookPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a saved assessment as a PDF or Excel report",
		Example: `  maturityd export --in results.json --org "Acme LLP" --format xlsx
  cat results.json | maturityd export --in - --org "Acme LLP" --out report.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd.InOrStdin(), in)
			if err != nil {
				return err
			}
			res, err := maturity.Decode(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			lib, err := newLibrary(playbookPath)
			if err != nil {
				return err
			}
			rendered, err := report.NewService(lib).Export(cmd.Context(), "cli", report.Request{Organization: org, Result: res}, f)
			if err != nil {
				return err
			}
			if out == "" {
				out = rendered.Filename
			}
			if err := os.WriteFile(out, rendered.Data, 0o644); err != nil {
				return err
			}
			abs, _ := filepath.Abs(out)
			fmt.Fprintln(cmd.OutOrStdout(), abs)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", `assessment JSON file ("-" for stdin)`)
	cmd.Flags().StringVar(&org, "org", "", "organization name printed on the report")
	cmd.Flags().StringVar(&format, "format", "pdf", "pdf or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: generated name in the current directory)")
	cmd.Flags().StringVar(&playbookPath, "playbook", "", "playbook YAML to use instead of the built-in content")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
