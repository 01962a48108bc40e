package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opengovern/quip-bridge/quip"
)

var (
	messagesCount  int
	messagesBefore int64
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Check the token and print the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		if !c.CheckUser(cmd.Context()) {
			return errInvalidToken
		}
		res, err := c.GetCurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		var u quip.User
		if err := res.Decode(&u); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), u)
	},
}

var threadCmd = &cobra.Command{
	Use:   "thread ID [ID...]",
	Short: "Fetch one or more threads",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			res, err := c.GetThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Value)
		}
		res, err := c.GetThreads(cmd.Context(), args...)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res.Value)
	},
}

var folderCmd = &cobra.Command{
	Use:   "folder ID [ID...]",
	Short: "Fetch one or more folders",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			res, err := c.GetFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Value)
		}
		res, err := c.GetFolders(cmd.Context(), args...)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res.Value)
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages THREAD_ID",
	Short: "List recent messages on a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.GetThreadMessages(cmd.Context(), args[0], &quip.MessageListOptions{
			Count:          messagesCount,
			MaxCreatedUsec: messagesBefore,
		})
		if err != nil {
			return err
		}
		var msgs []quip.Message
		if err := res.Decode(&msgs); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), msgs)
	},
}

var userCmd = &cobra.Command{
	Use:   "user ID",
	Short: "Fetch a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res.Value)
	},
}

func init() {
	messagesCmd.Flags().IntVar(&messagesCount, "count", 0, "maximum number of messages")
	messagesCmd.Flags().Int64Var(&messagesBefore, "before-usec", 0, "only messages created before this microsecond timestamp")

	rootCmd.AddCommand(whoamiCmd, threadCmd, folderCmd, messagesCmd, userCmd)
}
