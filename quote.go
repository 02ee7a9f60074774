package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dzoniops/villa-pricing-service/db"
	"github.com/dzoniops/villa-pricing-service/pricing"
)

var (
	quoteFile      string
	quoteVilla     string
	quoteCheckIn   string
	quoteCheckOut  string
	quoteReference string
	quotePolicy    string
	quoteFormat    string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a stay from a villa file without a database",
	Long: `Price a stay for one villa of a YAML villa file and print the nightly
breakdown. Without both dates the villa's flat price is shown.

Examples:
  villa-pricing quote --file villas.yaml --check-in 2023-07-10 --check-out 2023-07-13
  villa-pricing quote --file villas.yaml --villa "Villa Sơn Trà" --format json`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFile, "file", "f", "villas.yaml", "YAML villa file")
	quoteCmd.Flags().StringVar(&quoteVilla, "villa", "", "villa name (default is the first villa of the file)")
	quoteCmd.Flags().StringVar(&quoteCheckIn, "check-in", "", "check-in date, YYYY-MM-DD")
	quoteCmd.Flags().StringVar(&quoteCheckOut, "check-out", "", "check-out date, YYYY-MM-DD")
	quoteCmd.Flags().StringVar(&quoteReference, "reference", "", "date used for the active discount list, YYYY-MM-DD")
	quoteCmd.Flags().StringVar(&quotePolicy, "policy", "allow", "negative nightly price policy (allow, clamp, reject)")
	quoteCmd.Flags().StringVar(&quoteFormat, "format", "text", "output format (text, json)")
}

func runQuote(cmd *cobra.Command, _ []string) error {
	file, err := db.LoadSeedFile(quoteFile)
	if err != nil {
		return err
	}
	seed, ok := file.Find(quoteVilla)
	if !ok {
		return fmt.Errorf("villa %q not found in %s", quoteVilla, quoteFile)
	}
	villa, err := seed.Model()
	if err != nil {
		return err
	}
	vp, err := villa.Pricing()
	if err != nil {
		return err
	}

	policy, err := pricing.ParsePolicy(quotePolicy)
	if err != nil {
		return err
	}

	req := pricing.StayRequest{Villa: vp}
	if req.CheckIn, err = pricing.ParseOptionalDate(quoteCheckIn); err != nil {
		return err
	}
	if req.CheckOut, err = pricing.ParseOptionalDate(quoteCheckOut); err != nil {
		return err
	}
	if quoteReference != "" {
		if req.ReferenceDate, err = pricing.ParseDate(quoteReference); err != nil {
			return err
		}
	} else if req.CheckIn != nil {
		req.ReferenceDate = *req.CheckIn
	}

	agg := pricing.Aggregator{Policy: policy}
	quote, err := agg.Quote(req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch quoteFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(quote)
	case "text":
		breakdown, err := agg.Breakdown(req)
		if err != nil {
			return err
		}
		return printQuote(out, seed.Name, quote, breakdown)
	default:
		return fmt.Errorf("unknown format %q", quoteFormat)
	}
}

func printQuote(w io.Writer, name string, quote pricing.StayQuote, breakdown []pricing.Night) error {
	fmt.Fprintln(w, name)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if quote.Fallback {
		fmt.Fprintf(tw, "Base price\t%s\t\n", quote.Subtotal)
	} else {
		fmt.Fprintf(tw, "Date\tDay\tBase\tDiscount\tPrice\t\n")
		for _, n := range breakdown {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", n.Date, n.Label, n.BasePrice, -n.Reduction, n.Price)
		}
		fmt.Fprintf(tw, "Subtotal (%d nights)\t\t\t\t%s\t\n", quote.NightCount(), quote.Subtotal)
	}
	fmt.Fprintf(tw, "Service charge\t%s\t\n", quote.ServiceCharge)
	fmt.Fprintf(tw, "Total\t%s\t\n", quote.Total)
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, m := range quote.MissingPrices {
		fmt.Fprintf(w, "warning: %s (%s) priced at base price: %s\n", m.Date, m.Label, m.Reason)
	}
	for _, d := range quote.Active {
		fmt.Fprintf(w, "active discount: %s (%s to %s)\n", d.Name, d.Start, d.End)
	}
	return nil
}
