package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	aio "github.com/matzehuels/assetcanvas/pkg/io"
)

// =============================================================================
// export
// =============================================================================

func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write the stored enterprise to a JSON file",
		Long: `Write the stored enterprise to a JSON file.

A directory path, the current directory by default, receives a file named
enterprise_data_<date>.json. Use - to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return c.runExport(cmd.Context(), path)
		},
	}
}

func (c *CLI) runExport(ctx context.Context, path string) error {
	e, err := c.loadEnterprise(ctx, "")
	if err != nil {
		return err
	}
	if path == "-" {
		return aio.WriteJSON(e, os.Stdout)
	}
	written, err := aio.ExportJSON(e, path)
	if err != nil {
		return err
	}
	printSuccess("Exported %s", StyleHighlight.Render(e.Name))
	printSummary(e)
	printFile(written)
	return nil
}

// =============================================================================
// import
// =============================================================================

func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored enterprise with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runImport(ctx context.Context, path string) error {
	e, err := aio.ImportJSON(path)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, backend, err := c.openStore(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := st.SetEnterprise(e); err != nil {
		return err
	}
	if err := st.Save(ctx); err != nil {
		return err
	}
	printSuccess("Imported %s into %s storage", StyleHighlight.Render(e.Name), backend.Name())
	printSummary(e)
	return nil
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an enterprise JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := aio.ImportJSON(args[0])
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			printSuccess("%s is valid", args[0])
			printSummary(e)
			if len(e.Regions) > 0 {
				fmt.Fprintln(stdout, regionTable(e))
			}
			return nil
		},
	}
}

// =============================================================================
// tree
// =============================================================================

func (c *CLI) treeCommand() *cobra.Command {
	var (
		interactive bool
		depth       string
	)

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the hierarchy as a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			e, err := c.loadEnterprise(cmd.Context(), input)
			if err != nil {
				return err
			}
			if interactive {
				return browse(e)
			}

			deepest := hierarchy.KindEquipment
			if depth != "" {
				k, ok := hierarchy.ParseKind(depth)
				if !ok {
					return errors.New(errors.ErrCodeInvalidInput, "unknown depth %q", depth)
				}
				deepest = k
			}
			fmt.Fprintln(stdout, hierarchyTree(e, deepest))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the hierarchy interactively")
	cmd.Flags().StringVar(&depth, "depth", "", "deepest level to print (region, plant, area, location, equipment)")

	return cmd
}

// hierarchyTree renders e down to kind deepest.
func hierarchyTree(e *hierarchy.Enterprise, deepest hierarchy.Kind) *tree.Tree {
	t := tree.Root(StyleTitle.Render(e.Name)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, r := range e.Regions {
		t.Child(nodeTree(r, deepest))
	}
	return t
}

func nodeTree(n hierarchy.Node, deepest hierarchy.Kind) any {
	label := n.NodeName() + " " + StyleDim.Render(n.Kind().String())
	children := n.Children()
	if len(children) == 0 || n.Kind() >= deepest {
		return label
	}
	sub := tree.Root(label)
	for _, c := range children {
		sub.Child(nodeTree(c, deepest))
	}
	return sub
}

// browse runs the interactive tree and prints the picked node.
func browse(e *hierarchy.Enterprise) error {
	final, err := tea.NewProgram(NewTreeModel(e)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(TreeModel)
	if !ok || m.Selected == nil {
		return nil
	}
	_, path, _ := hierarchy.Find(e, m.Selected.NodeID())
	printKeyValue("id", m.Selected.NodeID())
	printKeyValue("name", m.Selected.NodeName())
	printKeyValue("kind", m.Selected.Kind().String())
	for _, p := range path {
		printDetail("in %s %s", p.Kind(), p.NodeName())
	}
	return nil
}
