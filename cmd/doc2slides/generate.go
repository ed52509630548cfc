package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/doc-to-slides/internal/convert"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

func generateCmd(cfgPath *string) *cobra.Command {
	var (
		template string
		out      string
		save     bool
		user     string
		sf       styleFlags
	)

	cmd := &cobra.Command{
		Use:   "generate <file.txt|file.pdf>",
		Short: "Generate slides from a document, optionally saving and exporting them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if save && user == "" {
				return fmt.Errorf("--save needs --user")
			}
			o, err := sf.override()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Run(cmd.Context(), convert.Upload{
				Filename: path,
				Data:     data,
				Template: style.TemplateID(template),
			}, convert.Options{Save: save, OwnerID: user, Export: out != "", CustomStyles: o})
			if err != nil {
				return err
			}
			if out != "" {
				if err := os.WriteFile(out, res.PDF, 0o644); err != nil {
					return err
				}
				a.log.Info().Str("path", out).Int("slides", len(res.Slides)).Msg("wrote presentation")
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", string(style.Modern), "template: modern|corporate|creative|academic")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the exported PDF here")
	cmd.Flags().BoolVar(&save, "save", false, "save the presentation for --user")
	cmd.Flags().StringVarP(&user, "user", "u", "", "owner id")
	cmd.Flags().StringVar(&sf.background, "background", "", "override background colour")
	cmd.Flags().StringVar(&sf.textColor, "text-color", "", "override text colour")
	cmd.Flags().StringVar(&sf.gradientStart, "gradient-start", "", "gradient start colour; replaces the background")
	cmd.Flags().StringVar(&sf.gradientEnd, "gradient-end", "", "gradient end colour")
	cmd.Flags().StringVar(&sf.font, "font", "default", "font: default|sans|serif|mono")
	cmd.Flags().Float64Var(&sf.fontSize, "font-size", 0, "override body font size in CSS pixels")
	return cmd
}

type styleFlags struct {
	background    string
	textColor     string
	gradientStart string
	gradientEnd   string
	font          string
	fontSize      float64
}

// override builds the custom styles the flags ask for, nil when none.
func (f styleFlags) override() (*style.Override, error) {
	if (f.gradientStart == "") != (f.gradientEnd == "") {
		return nil, fmt.Errorf("--gradient-start and --gradient-end go together")
	}
	o := &style.Override{}
	if f.background != "" {
		o.BackgroundColor = &f.background
	}
	if f.textColor != "" {
		o.TextColor = &f.textColor
	}
	if f.gradientStart != "" {
		o.Gradient = &style.GradientOverride{Start: f.gradientStart, End: f.gradientEnd}
	}
	if stack := style.FontStack(f.font); stack != "" {
		o.FontFamily = &stack
	}
	if f.fontSize > 0 {
		o.FontSize = &f.fontSize
	}
	if o.IsZero() {
		return nil, nil
	}
	return o, nil
}
