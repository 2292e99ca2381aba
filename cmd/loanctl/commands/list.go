package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vehicleloan/internal/usecase/query"
)

func listCmd(e *env) *cobra.Command {
	var (
		q      string
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			apps := query.Search(e.reg.List(), q, status)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCUSTOMER\tVEHICLE\tAMOUNT\tSTATUS\tCREATED")
			for _, a := range apps {
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%.0f\t%s\t%s\n",
					a.ID, a.Customer.Name, a.Vehicle.Make, a.Vehicle.Model,
					a.LoanPreferences.DesiredLoanAmount, a.Status,
					a.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "match customer name, vehicle model or id")
	cmd.Flags().StringVar(&status, "status", query.StatusAll, "status filter")
	return cmd
}

func statsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := query.Stats(e.reg.List())
			fmt.Fprintf(cmd.OutOrStdout(), "total=%d pending=%d submitted=%d resolved=%d\n",
				s.Total, s.Pending, s.Submitted, s.Resolved)
			return nil
		},
	}
}
