package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/db"
	"github.com/doodlesbykumbi/cms-in-go/pkg/mailer"
	gormstore "github.com/doodlesbykumbi/cms-in-go/pkg/server/store/gorm"
)

// messagesCmd represents the messages command
var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Manage notification messages",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'messages' requires a subcommand (deliver)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// messagesDeliverCmd represents the messages deliver command
var messagesDeliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Deliver pending notification messages",
	Long: `Deliver notification messages that were saved but never sent.

Messages stay pending when no SMTP relay was configured at submission time
or when delivery failed. This command sends them, oldest first, through
the relay in smtp_host.

Example:
  cmsctl messages deliver
  cmsctl messages deliver --limit 10`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		outbox := mailer.NewOutbox(gormstore.NewMessagesStore(database), mailer.NewSMTPSender(cfg), cfg.MailSender)
		sent, err := outbox.DeliverPending(limit)
		fmt.Printf("Delivered %d message(s)\n", sent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Delivery stopped: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(messagesCmd)
	messagesCmd.AddCommand(messagesDeliverCmd)
	messagesDeliverCmd.Flags().IntP("limit", "l", 100, "Maximum number of messages to deliver")
}
