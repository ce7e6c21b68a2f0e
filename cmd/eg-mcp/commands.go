package main

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/ironsheep/eg-mcp/internal/config"
	"github.com/ironsheep/eg-mcp/internal/registry"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

var (
	accent        = lipgloss.Color("#0657F9")
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	categoryStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			if lo.Must(cmd.Flags().GetBool("short")) {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
				return
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", nameStyle.Render(config.AppName), Version)
			fmt.Fprintf(out, "  %s %s\n", faintStyle.Render("Build time:"), BuildTime)
			fmt.Fprintf(out, "  %s %s\n", faintStyle.Render("Git commit:"), GitCommit)
			fmt.Fprintf(out, "  %s   %s/%s\n", faintStyle.Render("Platform:"), runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolP("short", "s", false, "Print only the version string")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			category := lo.Must(cmd.Flags().GetString("category"))
			if category != "" && !lo.Contains(registry.Categories, category) {
				return fmt.Errorf("unknown category %q (want one of %v)", category, registry.Categories)
			}

			entries := a.reg.List(mo.EmptyableToOption(category))
			width := lo.Max(lo.Map(entries, func(e registry.Entry, _ int) int { return len(e.Name) }))

			out := cmd.OutOrStdout()
			for _, c := range registry.Categories {
				group := lo.Filter(entries, func(e registry.Entry, _ int) bool { return e.Category == c })
				if len(group) == 0 {
					continue
				}
				fmt.Fprintln(out, headingStyle.Render(c))
				for _, e := range group {
					fmt.Fprintf(out, "  %s  %s\n", nameStyle.Width(width).Render(e.Name), e.Description)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, faintStyle.Render(fmt.Sprintf("%d components", len(entries))))
			return nil
		},
	}
	cmd.Flags().StringP("category", "c", "", "Only list one category: elements, motion or components")
	lo.Must0(cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return registry.Categories, cobra.ShellCompDirectiveNoFileComp
	}))
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search components by name, description and category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			matches := a.reg.Search(args[0])
			if len(matches) == 0 {
				fmt.Fprintf(out, "No components found matching %q\n", args[0])
				return nil
			}
			width := lo.Max(lo.Map(matches, func(m registry.Match, _ int) int { return len(m.Name) }))
			for _, m := range matches {
				fmt.Fprintf(out, "%3d  %s  %s  %s\n",
					m.Score,
					nameStyle.Width(width).Render(m.Name),
					categoryStyle.Render(m.Category),
					faintStyle.Render(fmt.Sprint(m.Fields)),
				)
			}
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that every component source, the docs and the theme are readable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths := a.contentPaths()
			problems, err := a.reader.Verify(cmd.Context(), paths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "%s %s\n", errorStyle.Render("✗"), p.Err)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d of %d files unreadable under %s", len(problems), len(paths), a.cfg.Root)
			}
			fmt.Fprintf(out, "%s %d files readable under %s\n", okStyle.Render("✓"), len(paths), a.cfg.Root)
			return nil
		},
	}
}
