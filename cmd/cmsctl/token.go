package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/cms-in-go/pkg/config"
	"github.com/doodlesbykumbi/cms-in-go/pkg/identity"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage admin API tokens",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'token' requires a subcommand (issue)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue <subject>",
	Short: "Issue a signed admin token",
	Long: `Issue a signed admin token for the entries API.

The token is signed with token_secret and is valid for token_ttl seconds
unless --ttl is given. Send it as "Authorization: Bearer <token>".

Example:
  cmsctl token issue admin
  cmsctl token issue editor --ttl 15m`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		token, err := issueToken(cfg, args[0], ttl, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenIssueCmd.Flags().Duration("ttl", 0, "Token lifetime (default: token_ttl)")
}

func issueToken(cfg *config.CMSConfig, subject string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = cfg.TokenLifetime()
	}
	return identity.IssueToken([]byte(cfg.TokenSecret), subject, ttl, now)
}
