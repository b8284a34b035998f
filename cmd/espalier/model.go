package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seedbed/espalier/internal/presentation/graph"
	"github.com/seedbed/espalier/pkg/model"
	"github.com/seedbed/espalier/pkg/modelfile"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect model definition files",
}

var modelValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a model definition for consistency",
	Long:  `Loads a YAML or JSON model definition and reports missing entry points, duplicate transitions and weight sums that do not reach 1.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadModel(args[0])
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if err := m.Validate(); err != nil {
			fmt.Printf("Validation failed:\n%v\n", err)
			os.Exit(1)
		}
		fmt.Println("Model is valid! ✅")
	},
}

var modelGraphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the model as a diagram",
	Long:  `Loads a model definition and outputs a Mermaid flowchart or a Graphviz DOT document representing its transition graph.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadModel(args[0])
		if err != nil {
			fmt.Printf("Error loading model: %v\n", err)
			os.Exit(1)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "mermaid":
			fmt.Print(graph.Mermaid(m))
		case "dot":
			out, err := graph.Dot(m)
			if err != nil {
				fmt.Printf("Error exporting graph: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(out)
		default:
			fmt.Printf("Unknown format %q (want mermaid or dot)\n", format)
			os.Exit(1)
		}
	},
}

// loadModel builds a model from a definition file with every named
// invariant stubbed out. Structure checks and graph export never execute
// invariant code, so stubs are enough here.
func loadModel(path string) (*model.Model, error) {
	spec, err := modelfile.LoadFile(path)
	if err != nil {
		return nil, err
	}

	registry := make(modelfile.Registry)
	for _, p := range spec.Properties {
		if p.Invariant != "" {
			registry[p.Invariant] = nil
		}
	}
	return spec.Build(registry)
}

func init() {
	modelGraphCmd.Flags().String("format", "mermaid", "Output format: mermaid or dot")
	modelCmd.AddCommand(modelValidateCmd)
	modelCmd.AddCommand(modelGraphCmd)
	rootCmd.AddCommand(modelCmd)
}
