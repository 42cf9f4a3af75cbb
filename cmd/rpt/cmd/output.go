package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/donaldgifford/retail-price-tracker/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printPricesTable(w io.Writer, entries []domain.PriceEntry) error {
	tw := newTabWriter(w)
	tw.writef("RETAILER\tVARIANT\tPRICE\tUPDATED\n")
	for i := range entries {
		tw.writef("%s\t%s\t%s\t%s\n",
			entries[i].Key.Retailer,
			entries[i].Key.Variant,
			entries[i].Price,
			entries[i].UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func printTargetsTable(w io.Writer, targets []domain.RetailerTargets) error {
	tw := newTabWriter(w)
	tw.writef("RETAILER\tVARIANT\tURL\n")
	for i := range targets {
		for _, v := range targets[i].Variants {
			tw.writef("%s\t%s\t%s\n", targets[i].Name, v.Key, v.URL)
		}
	}
	return tw.finish()
}

func printCycleReport(w io.Writer, r *domain.CycleReport) error {
	tw := newTabWriter(w)
	tw.writef("Cycle:\t%s\n", r.ID)
	tw.writef("Started:\t%s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	tw.writef("Duration:\t%s\n", r.Duration)
	tw.writef("First run:\t%v\n", r.FirstRun)
	for i := range r.Results {
		res := &r.Results[i]
		tw.writef("%s:\t%d lines, %d unknown, %d changed\n",
			res.Retailer, len(res.Lines), res.Unknown, res.Changes)
	}
	if err := tw.finish(); err != nil {
		return err
	}

	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
