package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seekerlabs/seeker/internal/workspace"
)

func newLsCmd(flags *rootFlags) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List workspace files, honoring ignore patterns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}

			entries, err := a.guard.List(dir, recursive)
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	return cmd
}

func newFindCmd(flags *rootFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "find <pattern>",
		Short: "Find workspace files matching a glob pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}

			entries, err := a.guard.Find(args[0], dir)
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to search under")
	return cmd
}

func newCatCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a workspace text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}

			resolved, err := a.guard.Resolve(args[0], workspace.ForRead)
			if err != nil {
				return err
			}
			content, err := a.guard.ReadText(resolved)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

func printEntries(cmd *cobra.Command, entries []workspace.Entry) {
	out := cmd.OutOrStdout()
	for _, e := range entries {
		if e.IsDir {
			fmt.Fprintf(out, "%s/\n", e.Path.Rel())
		} else {
			fmt.Fprintln(out, e.Path.Rel())
		}
	}
}
