package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/malphas-lang/internal/diag"
	"github.com/malphas-lang/malphas-lang/internal/fixture"
	"github.com/malphas-lang/malphas-lang/internal/mir"
)

func newLowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower <fixture.yaml>",
		Short: "Lower a fixture-described module to MIR and print it",
		Long: "Reads a YAML fixture standing in for a parsed+type-checked module " +
			"(the real lexer/parser/checker are out of scope for this binary), " +
			"runs it through the lowering pipeline, and pretty-prints the result.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLoggerFromConfig(cfg)

			f, err := fixture.Load(args[0])
			if err != nil {
				return err
			}
			decls, typeMap, types, traits, imports := fixture.Build(f, args[0])

			lowerer := mir.NewLowerer(typeMap, types, traits, imports)
			lowerer.MonoDepthBound = cfg.MonomorphizationDepthBound

			mod, err := lowerer.LowerModule(decls)
			if err != nil {
				return fmt.Errorf("lowering %s: %w", args[0], err)
			}

			logger.Info("lowered module", "functions", len(mod.Functions), "diagnostics", lowerer.Diags.Len())

			if lowerer.Diags.Len() > 0 {
				formatter := diag.NewFormatter()
				for _, d := range lowerer.Diags.All() {
					formatter.Format(d)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), mod.PrettyPrint())
			return nil
		},
	}
	return cmd
}
