package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

func exportCmd(cfgPath *string) *cobra.Command {
	var user, out string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a saved presentation to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			pdf, err := a.svc.Export(cmd.Context(), user, args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return err
			}
			a.log.Info().Str("id", args[0]).Str("path", out).Msg("wrote presentation")
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "owner id")
	cmd.Flags().StringVarP(&out, "out", "o", "presentation.pdf", "output PDF path")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func listCmd(cfgPath *string) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's presentations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.svc.List(cmd.Context(), user)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "owner id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func showCmd(cfgPath *string) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.svc.Get(cmd.Context(), user, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "owner id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func deleteCmd(cfgPath *string) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.svc.Delete(cmd.Context(), user, args[0])
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "owner id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Print the built-in templates and their default styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make(map[style.TemplateID]style.Resolved, len(style.Templates()))
			for _, t := range style.Templates() {
				out[t] = style.Defaults(t)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
