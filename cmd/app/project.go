package main

import (
	"fmt"
	"io"
	"time"

	"HodlCalc/internal/di"
	"HodlCalc/internal/domain/models"
	"HodlCalc/internal/services/forecast"
	"HodlCalc/pkg/util"

	"github.com/spf13/cobra"
)

type projectFlags struct {
	price       float64
	currentYear int
	month       int
	years       []int
}

func newProjectCmd(root *rootFlags) *cobra.Command {
	f := &projectFlags{}
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print a projection table for a reference price",
		Example: "  hodlcalc project --price 112000\n" +
			"  hodlcalc project --price 60000 --years 2030,2040,2060",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd, false)
			if err != nil {
				return err
			}
			model, err := di.ProvideForecastModel(cfg)
			if err != nil {
				return err
			}
			return writeProjectionTable(cmd.OutOrStdout(), model, f)
		},
	}

	cmd.Flags().Float64Var(&f.price, "price", 100_000, "reference BTC price in USD")
	cmd.Flags().IntVar(&f.currentYear, "from-year", time.Now().Year(), "year the reference price was observed")
	cmd.Flags().IntVar(&f.month, "month", 1, "month of each target year (1-12)")
	cmd.Flags().IntSliceVar(&f.years, "years",
		[]int{2026, 2027, 2028, 2029, 2030, 2035, 2040, 2045, 2050}, "target years")
	return cmd
}

func writeProjectionTable(w io.Writer, model *forecast.Model, f *projectFlags) error {
	anchorYears := make(map[int]bool)
	for _, a := range model.Anchors().Anchors() {
		anchorYears[a.Year] = true
	}

	fmt.Fprintf(w, "%s\n", model.Summary())
	fmt.Fprintf(w, "Reference price: %s (%d)\n\n", util.FormatUSD(f.price), f.currentYear)
	fmt.Fprintf(w, "%-8s %20s %20s %10s %10s\n", "Target", "Base Price", "With Volatility", "Factor", "Multiple")

	for _, year := range f.years {
		p, err := model.Project(f.price, f.currentYear, models.YearMonth{Year: year, Month: f.month})
		if err != nil {
			return err
		}
		marker := ""
		if anchorYears[year] {
			marker = " (anchor)"
		}
		if p.Capped {
			marker += " (capped)"
		}
		fmt.Fprintf(w, "%-8s %20s %20s %9.3fx %9.1fx%s\n",
			p.Target.String(),
			util.FormatUSD(p.BasePrice),
			util.FormatUSD(p.Price),
			p.VolatilityFactor,
			p.BasePrice/f.price,
			marker,
		)
	}
	fmt.Fprintf(w, "\n%s\n", model.Describe())
	return nil
}
