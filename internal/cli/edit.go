package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodedesign/pkg/config"
	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/layout"
	"github.com/matzehuels/nodedesign/pkg/panel"
	"github.com/matzehuels/nodedesign/pkg/workflow"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		output  string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "edit <workflow.json>",
		Short: "Edit a workflow layout interactively",
		Long: `Open a workflow in a terminal editor.

Select nodes with the arrow keys and space (or by clicking them), then
press a layout key; ctrl+z and ctrl+y walk the undo history. The floating
toolbar lists every binding. Press p to switch it between permanent and
on-selection, and drag it with the mouse; its position and mode are saved
to the config file. ctrl+s writes the workflow back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], output, logFile)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "save to this file instead of the input")
	cmd.Flags().StringVar(&logFile, "log", "", "write engine logs to this file")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input, output, logFile string) error {
	cfg, cfgPath, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, err := workflow.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load workflow %s: %w", input, err)
	}
	if output == "" {
		output = input
	}

	logger, closeLog, err := openLogFile(logFile, c.Logger.GetLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	engine := layout.NewEngine(doc, history.New(cfg.History.Capacity, doc, logger), cfg.LayoutConfig(), logger)
	p := panel.New(cfg.PanelState())
	p.Persist = config.PanelPersister(cfgPath)

	m := NewEditModel(doc, engine, p)
	m.Save = func(d *workflow.Document) error {
		logger.Debug("saving", "path", output, "revision", d.Revision())
		return workflow.WriteFile(d, output)
	}

	final, err := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if em, ok := final.(*EditModel); ok && em.Dirty() {
		printWarning("Quit with unsaved changes")
		return nil
	}
	printSuccess("Editor closed")
	printFile(output)
	return nil
}

var _ tea.Model = (*EditModel)(nil)
