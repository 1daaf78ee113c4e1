package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/spf13/cobra"
)

var (
	rememberWho  string
	rememberWhen string
)

var rememberCmd = &cobra.Command{
	Use:          "remember <text>",
	Short:        "Store one message as if it was said in the channel",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		loc := a.cfg.Location()
		when := rememberWhen
		if when == "" {
			when = time.Now().In(loc).Format(core.WhenLayout)
		} else if _, err := time.ParseInLocation(core.WhenLayout, when, loc); err != nil {
			return fmt.Errorf("--when must look like %s: %w", core.WhenLayout, err)
		}

		id, err := a.engine.Remember(ctx, strings.Join(args, " "), core.Metadata{
			Who:  rememberWho,
			When: when,
		})
		if err != nil {
			return err
		}

		log.FromCtx(ctx).Info().Str("node_id", id.String()).Msg("message stored")
		fmt.Fprintln(cmd.OutOrStdout(), id.String())
		return nil
	},
}

func init() {
	rememberCmd.Flags().StringVar(&rememberWho, "who", "", "author of the message")
	rememberCmd.Flags().StringVar(&rememberWhen, "when", "", "time the message was said, defaults to now")
	rootCmd.AddCommand(rememberCmd)
}
