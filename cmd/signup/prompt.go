package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-signup/pkg/renderers/tui"
)

func newPromptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Run the sign-up wizard as terminal prompts",
		Long: `Prompts for the account step, then the payment step for paid plans,
and prints the finalized submission as JSON with secrets redacted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.prompt(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) prompt(ctx context.Context, out io.Writer) error {
	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	locale := a.cfg.Locale
	if locale != "" {
		locale = svc.Catalog().MatchLocale(locale)
	}

	submission, err := svc.Prompt(ctx, locale, tui.WithPromptDriver(tui.NewSurveyDriver(out)))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(submission); err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	return nil
}
