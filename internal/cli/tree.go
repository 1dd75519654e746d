package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/asd977/FlexSimulate/internal/nav"
)

func newTreeCmd(app *App) *cobra.Command {
	var ids bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the navigation tree (library, project, schemes, models)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, root := range sess.Nav().Tree().Roots {
				fmt.Fprintln(cmd.OutOrStdout(), renderTree(root, ids).String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&ids, "ids", false, "Show record ids")
	return cmd
}

var (
	treeRootStyle   = lipgloss.NewStyle().Bold(true)
	treeSchemeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	treeIDStyle     = lipgloss.NewStyle().Faint(true)
)

func renderTree(it *nav.Item, ids bool) *tree.Tree {
	t := tree.Root(treeLabel(it, ids)).Enumerator(tree.RoundedEnumerator)
	for _, c := range it.Children {
		if len(c.Children) == 0 {
			t.Child(treeLabel(c, ids))
			continue
		}
		t.Child(renderTree(c, ids))
	}
	return t
}

func treeLabel(it *nav.Item, ids bool) string {
	label := it.Text
	var id string
	switch n := it.Node.(type) {
	case nav.ProjectNode, nav.LibraryNode:
		label = treeRootStyle.Render(label)
	case nav.SchemeNode:
		label = treeSchemeStyle.Render(label)
		id = n.ID
	case nav.ModelNode:
		id = n.ID
	}
	if ids && id != "" {
		label += " " + treeIDStyle.Render(id)
	}
	return label
}
