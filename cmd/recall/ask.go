package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/recall/internal/service/ui"
	"github.com/sandevgo/recall/pkg/conv"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:           "ask <question>",
	Short:         "Answer a question from stored messages",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		answer, err := a.engine.AnswerDirect(ctx, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorStyle.Render(err.Error()))
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.AnswerStyle.Render(conv.MarkdownToPlain([]byte(answer))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
