package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"more-shortcuts/chord"
	"more-shortcuts/keys"
	"more-shortcuts/shortcut"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// defaultTableWidth is used when stdout is not a terminal.
const defaultTableWidth = 100

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(func(reg *shortcut.Registry) error {
				out := cmd.OutOrStdout()
				if reg.Len() == 0 {
					fmt.Fprintln(out, "No shortcuts stored.")
					return nil
				}
				writeTable(out, reg.Shortcuts(), tableWidth(out))
				return nil
			})
		},
	}
}

// tableWidth is the terminal width when out is one.
func tableWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTableWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTableWidth
	}
	return width
}

// writeTable prints one row per shortcut. The name and widget columns share
// what the binding and flag columns leave of width.
func writeTable(out io.Writer, shortcuts []*shortcut.Shortcut, width int) {
	header := []string{"NAME", "BINDING", "WIDGET", "FLAGS"}
	rows := make([][]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		widget := s.Component
		if s.UsePath {
			widget = s.JoinedPath()
		}
		var flags []string
		if s.UsePath {
			flags = append(flags, "path")
		}
		if s.OnlyVisible {
			flags = append(flags, "visible")
		}
		if shadowed := keys.Shadowed(s.InputKey); len(shadowed) > 0 {
			flags = append(flags, "hides "+keys.GlobalkeyBindings[shadowed[0]].Help().Key)
		}
		rows = append(rows, []string{s.Name, s.Binding(), widget, strings.Join(flags, ",")})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	// Shrink the widest free-text column until the table fits.
	const gap = 2
	total := func() int {
		sum := gap * (len(widths) - 1)
		for _, w := range widths {
			sum += w
		}
		return sum
	}
	for total() > width {
		col := 0
		if widths[2] > widths[0] {
			col = 2
		}
		if widths[col] <= 8 {
			break
		}
		widths[col]--
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		for i, cell := range cells {
			cell = runewidth.Truncate(cell, widths[i], "…")
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]+gap))
		}
		fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	}
	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the stored shortcuts as YAML to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(func(reg *shortcut.Registry) error {
				if len(args) == 0 {
					return reg.ExportYAML(cmd.OutOrStdout())
				}
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				if err := reg.ExportYAML(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d shortcuts to %s\n", reg.Len(), args[0])
				return nil
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Add shortcuts from a YAML file or stdin",
		Long: "Add shortcuts written by export. Names that are already taken get a number appended.\n" +
			"With --replace the stored shortcuts are dropped first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			return withRegistry(func(reg *shortcut.Registry) error {
				n, err := reg.ImportYAML(in, replace)
				if err != nil {
					return err
				}
				if err := reg.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d shortcuts (%d stored)\n", n, reg.Len())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Drop the stored shortcuts before importing")
	return cmd
}

// checkBindable rejects chords no shortcut may use.
func checkBindable(c chord.Chord) error {
	key := c.Key()
	switch {
	case chord.IsModifier(key):
		return fmt.Errorf("%s is a modifier key and cannot be bound on its own", chord.KeyName(key))
	case key == chord.ButtonToKeyCode(chord.MouseLeft), key == chord.ButtonToKeyCode(chord.MouseRight):
		return fmt.Errorf("%s is reserved for clicking", chord.KeyName(key))
	}
	return nil
}

func newBindCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "bind <name> <chord>",
		Short: "Change the binding of a stored shortcut",
		Long: "Bind a stored shortcut to a chord such as \"Ctrl+Shift+K\", \"F5\" or \"Mouse 3\".\n" +
			"\"None\" unbinds it. A chord already used by another shortcut needs --force,\n" +
			"which unbinds the shortcuts that held it.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := chord.Parse(args[1])
			if err != nil {
				return err
			}
			if err := checkBindable(c); err != nil {
				return err
			}
			return withRegistry(func(reg *shortcut.Registry) error {
				s := reg.FindByName(args[0])
				if s == nil {
					return fmt.Errorf("no shortcut named %q", args[0])
				}
				conflicts := reg.Conflicts(s, c)
				if len(conflicts) > 0 && !force {
					owner := conflicts[0].Name
					if len(conflicts) > 1 {
						owner = "multiple shortcuts"
					}
					return fmt.Errorf("%s is already bound to %s (use --force to rebind)", c, owner)
				}
				for _, other := range conflicts {
					other.InputKey = chord.None
				}
				s.InputKey = c
				if err := reg.Save(); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, other := range conflicts {
					fmt.Fprintf(out, "%s is now unbound\n", other.Name)
				}
				fmt.Fprintf(out, "%s is now bound to %s\n", s.Name, c)
				if shadowed := keys.Shadowed(c); len(shadowed) > 0 {
					fmt.Fprintf(out, "Note: this hides the host key %s (%s).\n",
						keys.GlobalkeyBindings[shadowed[0]].Help().Key,
						keys.GlobalkeyBindings[shadowed[0]].Help().Desc)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Bind even if another shortcut uses the chord")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored shortcut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(func(reg *shortcut.Registry) error {
				n := reg.Len()
				reg.Clear()
				if err := reg.Save(); err != nil {
					return fmt.Errorf("failed to reset shortcuts: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d shortcuts\n", n)
				return nil
			})
		},
	}
}
