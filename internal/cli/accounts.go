package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"servicofacil/internal/domain"
	accountsvc "servicofacil/internal/service/account"
)

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsReportCmd)
	accountsCmd.AddCommand(accountsPayCmd)

	for _, c := range []*cobra.Command{accountsListCmd, accountsReportCmd} {
		c.Flags().String("status", "all", "all, pending, paid or overdue")
		c.Flags().String("from", "", "First due date, DD/MM/YYYY (default today)")
		c.Flags().String("to", "", "Last due date, DD/MM/YYYY (default 60 days ahead)")
	}
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Query and settle payable accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts matching the filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		views, err := filterAccounts(cmd)
		if err != nil {
			return err
		}
		return renderAccounts(cmd.OutOrStdout(), views)
	},
}

var accountsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize accounts matching the filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		views, err := filterAccounts(cmd)
		if err != nil {
			return err
		}
		return renderAccountReport(cmd.OutOrStdout(), accountsvc.BuildReport(views))
	},
}

var accountsPayCmd = &cobra.Command{
	Use:   "pay ID",
	Short: "Mark an account as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid account id %q", args[0])
		}
		ctx := cmd.Context()
		st, err := openStore(ctx, stderrLogger())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := accountsvc.New(st.Accounts).MarkPaid(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account %d marked as paid\n", id)
		return nil
	},
}

func accountCriteria(cmd *cobra.Command, today time.Time) accountsvc.Criteria {
	crit := accountsvc.DefaultCriteria(today)
	flags := cmd.Flags()
	crit.Status, _ = flags.GetString("status")
	if flags.Changed("from") {
		crit.From, _ = flags.GetString("from")
	}
	if flags.Changed("to") {
		crit.To, _ = flags.GetString("to")
	}
	return crit
}

func filterAccounts(cmd *cobra.Command) ([]accountsvc.View, error) {
	ctx := cmd.Context()
	st, err := openStore(ctx, stderrLogger())
	if err != nil {
		return nil, err
	}
	defer st.Close()

	svc := accountsvc.New(st.Accounts)
	return svc.Filter(ctx, accountCriteria(cmd, svc.Today()))
}

func renderAccounts(w io.Writer, views []accountsvc.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tDUE\tAMOUNT\tRECURRING\tSTATUS")
	for _, v := range views {
		recurring := "no"
		if v.Recurring {
			recurring = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Description, domain.FormatUserDate(v.DueDate), domain.FormatMoney(v.Amount), recurring, v.Status)
	}
	return tw.Flush()
}

func renderAccountReport(w io.Writer, r accountsvc.Report) error {
	fmt.Fprintf(w, "Accounts: %d (%d overdue)\n", r.Count, r.OverdueCount)
	fmt.Fprintf(w, "Pending: %s\n", domain.FormatMoney(r.PendingTotal))
	fmt.Fprintf(w, "Paid: %s\n", domain.FormatMoney(r.PaidTotal))
	fmt.Fprintf(w, "Total: %s\n", domain.FormatMoney(r.Total))
	return nil
}
