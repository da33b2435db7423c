package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/layout"
	"github.com/matzehuels/nodedesign/pkg/node"
	"github.com/matzehuels/nodedesign/pkg/workflow"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output  string  // output file, "-" for stdout
	ids     []int64 // explicit selection
	all     bool    // select every node
	spacing float64 // smart-align spacing factor override
	tree    float64 // tree-view factor override
	color   string  // title colour applied after the operations
	bgcolor string  // background colour applied after the operations
}

// layoutCommand creates the layout command for applying layout operations.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout <operation>[,<operation>...] <workflow.json>",
		Short: "Apply layout operations to a workflow",
		Long: `Apply one or more layout operations to the selected nodes of a workflow.

Operations run in order against the same selection:

` + operationList() + `
The selection defaults to the one saved in the workflow; use --select or
--all to override it. The result is written to <input>.layout.json unless
-o is given ("-o -" writes to stdout).`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				names := make([]string, 0, len(layout.Operations()))
				for _, op := range layout.Operations() {
					names = append(names, string(op))
				}
				return names, cobra.ShellCompDirectiveNoFileComp
			}
			return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOperations(args[0])
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[1], ops, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().Int64SliceVar(&opts.ids, "select", nil, "node ids to select, in order")
	cmd.Flags().BoolVar(&opts.all, "all", false, "select every node")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", 0, "smart-align spacing factor (default from config)")
	cmd.Flags().Float64Var(&opts.tree, "tree-factor", 0, "tree-view spacing factor (default from config)")
	cmd.Flags().StringVar(&opts.color, "color", "", "set the title colour of the selection afterwards")
	cmd.Flags().StringVar(&opts.bgcolor, "bgcolor", "", "set the background colour of the selection afterwards")
	cmd.MarkFlagsMutuallyExclusive("select", "all")

	return cmd
}

// parseOperations splits a comma-separated operation list.
func parseOperations(s string) ([]layout.Operation, error) {
	var ops []layout.Operation
	for _, name := range strings.Split(s, ",") {
		op, err := layout.ParseOperation(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func operationList() string {
	var b strings.Builder
	for _, op := range layout.Operations() {
		fmt.Fprintf(&b, "  %-16s %s\n", op, op.Title())
	}
	return b.String()
}

// runLayout loads the workflow, applies ops to the selection and writes the result.
func (c *CLI) runLayout(ctx context.Context, input string, ops []layout.Operation, opts layoutOpts) error {
	cfg, _, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, err := workflow.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load workflow %s: %w", input, err)
	}
	if err := applySelection(doc, opts.ids, opts.all); err != nil {
		return err
	}

	lcfg := cfg.LayoutConfig()
	if opts.spacing > 0 {
		lcfg.SpacingFactor = opts.spacing
	}
	if opts.tree > 0 {
		lcfg.TreeFactor = opts.tree
	}
	engine := layout.NewEngine(doc, history.New(cfg.History.Capacity, doc, c.Logger), lcfg, c.Logger)

	prog := newProgress(c.Logger)
	for _, op := range ops {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !engine.Apply(op) {
			return fmt.Errorf("%s: %w", op, engine.LastError())
		}
		prog.step(string(op), "selected", len(doc.Selection()))
	}
	if opts.color != "" && !engine.SetColor(opts.color) {
		return fmt.Errorf("set colour: %w", engine.LastError())
	}
	if opts.bgcolor != "" && !engine.SetBgColor(opts.bgcolor) {
		return fmt.Errorf("set background colour: %w", engine.LastError())
	}
	selected := len(doc.Selection())
	prog.done(fmt.Sprintf("Applied %d operation(s) to %d nodes", len(ops), selected))

	if opts.output == "-" {
		return workflow.Write(doc, os.Stdout)
	}
	outputPath := opts.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := workflow.WriteFile(doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printOperations(ops)
	printFile(outputPath)
	printSelection(doc.Selection())
	printDetail("%d nodes, revision %d", len(doc.Nodes()), doc.Revision())
	printNewline()
	printNextStep("Preview", appName+" render "+outputPath)
	return nil
}

// applySelection replaces the saved selection when flags ask for it.
func applySelection(doc *workflow.Document, ids []int64, all bool) error {
	if all {
		doc.SelectAll()
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	sel := make([]node.ID, len(ids))
	for i, id := range ids {
		sel[i] = node.ID(id)
	}
	return doc.Select(sel...)
}
