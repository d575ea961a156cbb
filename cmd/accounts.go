package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teemow/searchfewer/internal/accounts"
)

func newAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts configured in the environment",
		Long: `Load accounts from GSC_REFRESH_TOKEN, GSC_ACCOUNTS and GSC_ACCOUNTS_FILE
(after reading a .env file if present) and print what the serve command
would start with. Refresh tokens are never printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			store := accounts.NewStore()
			n := accounts.LoadFromEnv(store, logger)
			if n == 0 {
				fmt.Println("No accounts configured.")
				fmt.Println("Set GSC_REFRESH_TOKEN and GSC_ACCOUNT_EMAIL, or GSC_ACCOUNTS / GSC_ACCOUNTS_FILE.")
				return nil
			}

			defaultAcct, err := store.Resolve("")
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tEMAIL\tDEFAULT")
			for _, acct := range store.List() {
				marker := ""
				if acct.ID == defaultAcct.ID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", acct.ID, acct.Email, marker)
			}
			return w.Flush()
		},
	}
}
