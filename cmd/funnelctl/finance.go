package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/shared/money"
)

func optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the payment options offered to customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTHS\tAPR\tLABEL")
			for _, opt := range finance.Options() {
				fmt.Fprintf(w, "%d\t%s%%\t%s\n", opt.Months, opt.APR.String(), opt.Label())
			}
			return w.Flush()
		},
	}
}

func quoteCmd() *cobra.Command {
	var (
		price   string
		deposit int
		months  int
		apr     string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the finance breakdown for a price and payment option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cash, err := money.ParsePrice(price)
			if err != nil {
				return err
			}
			rate, err := decimal.NewFromString(apr)
			if err != nil {
				return fmt.Errorf("invalid --apr %q: %w", apr, err)
			}
			option, err := finance.LookupOption(months, rate)
			if err != nil {
				return err
			}
			quote, err := finance.QuoteFor(cash, deposit, option)
			if err != nil {
				return err
			}
			return printQuote(cmd, quote)
		},
	}
	def := finance.DefaultOption()
	cmd.Flags().StringVarP(&price, "price", "p", "", "Cash price, e.g. £2,340")
	cmd.Flags().IntVarP(&deposit, "deposit", "d", 0, "Deposit percentage (0-50)")
	cmd.Flags().IntVarP(&months, "months", "m", def.Months, "Term in months")
	cmd.Flags().StringVar(&apr, "apr", def.APR.String(), "Representative APR")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func printQuote(cmd *cobra.Command, q finance.Quote) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"Cash price", money.FormatGBP(q.CashPrice)},
		{"Deposit", fmt.Sprintf("%s (%s%%)", pounds(q.DepositAmount), q.DepositPercent.String())},
		{"Loan amount", pounds(q.LoanAmount)},
		{"Term", q.Option().Label()},
		{"Monthly payment", pounds(q.MonthlyPayment)},
		{"Total payable", pounds(q.TotalPayable)},
		{"Interest payable", pounds(q.InterestPayable)},
		{"Annual interest rate", q.AnnualInterestRate.StringFixed(2) + "%"},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.label, r.value)
	}
	return w.Flush()
}

func pounds(amount decimal.Decimal) string {
	return "£" + amount.StringFixed(2)
}
