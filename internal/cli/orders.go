package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"servicofacil/internal/domain"
	"servicofacil/internal/service/catalog"
	ordersvc "servicofacil/internal/service/order"
)

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersReportCmd)

	for _, c := range []*cobra.Command{ordersListCmd, ordersReportCmd} {
		c.Flags().Int64("client", 0, "Only orders of this client id (0 for all)")
		c.Flags().String("status", "all", "Only orders in this status")
		c.Flags().String("from", "", "First order date, DD/MM/YYYY (default 30 days ago)")
		c.Flags().String("to", "", "Last order date, DD/MM/YYYY (default today)")
	}
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Query service orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders matching the filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		views, err := filterOrders(cmd)
		if err != nil {
			return err
		}
		return renderOrders(cmd.OutOrStdout(), views)
	},
}

var ordersReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize orders matching the filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		views, err := filterOrders(cmd)
		if err != nil {
			return err
		}
		return renderOrderReport(cmd.OutOrStdout(), ordersvc.BuildReport(views))
	},
}

// orderCriteria reads the filter flags. Dates not given on the command line
// fall back to the last thirty days.
func orderCriteria(cmd *cobra.Command, today time.Time) ordersvc.Criteria {
	crit := ordersvc.DefaultCriteria(today)
	flags := cmd.Flags()
	if id, _ := flags.GetInt64("client"); id > 0 {
		crit.ClientID = &id
	}
	crit.Status, _ = flags.GetString("status")
	if flags.Changed("from") {
		crit.From, _ = flags.GetString("from")
	}
	if flags.Changed("to") {
		crit.To, _ = flags.GetString("to")
	}
	return crit
}

func filterOrders(cmd *cobra.Command) ([]ordersvc.OrderView, error) {
	ctx := cmd.Context()
	st, err := openStore(ctx, stderrLogger())
	if err != nil {
		return nil, err
	}
	defer st.Close()

	cat, err := catalog.Load(ctx, st.Clients, st.Items)
	if err != nil {
		return nil, err
	}
	return ordersvc.New(st.Orders, nil).Filter(ctx, cat, orderCriteria(cmd, time.Now()))
}

func renderOrders(w io.Writer, views []ordersvc.OrderView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCLIENT\tDATE\tSTATUS\tDELIVERY\tTOTAL")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			v.Order.ID, v.ClientName, domain.FormatUserDate(v.Order.Date), v.Order.Status, v.Order.Delivery, domain.FormatMoney(v.Total))
	}
	return tw.Flush()
}

func renderOrderReport(w io.Writer, r ordersvc.Report) error {
	fmt.Fprintf(w, "Orders: %d\n", r.Count)
	fmt.Fprintf(w, "Total value: %s\n", domain.FormatMoney(r.TotalValue))

	statuses := make([]string, 0, len(r.ByStatus))
	for s := range r.ByStatus {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(w, "  %s: %d\n", s, r.ByStatus[domain.OrderStatus(s)])
	}
	return nil
}
