package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"HodlCalc/internal/di"
	"HodlCalc/internal/domain/models"
	"HodlCalc/pkg/util"

	"github.com/spf13/cobra"
)

type valueFlags struct {
	btc      float64
	usd      float64
	purchase string
	future   string
	timeout  time.Duration
}

func newValueCmd(root *rootFlags) *cobra.Command {
	f := &valueFlags{}
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Value a BTC holding against live prices",
		Example: "  hodlcalc value --btc 0.5 --purchase 2020-03\n" +
			"  hodlcalc value --usd 1000 --purchase 2021-04 --future 2035-01",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			cfg, err := root.load(cmd, true)
			if err != nil {
				return err
			}
			uc, err := di.InitializeValuation(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
			defer cancel()
			v, err := uc.Calculate(ctx, req, time.Now())
			if err != nil {
				return err
			}
			writeValuation(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().Float64Var(&f.btc, "btc", 0, "BTC amount held")
	cmd.Flags().Float64Var(&f.usd, "usd", 0, "USD amount invested (instead of --btc)")
	cmd.Flags().StringVar(&f.purchase, "purchase", "", "purchase month as YYYY-MM")
	cmd.Flags().StringVar(&f.future, "future", "", "compare against a projected month (YYYY-MM) instead of today")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "overall timeout")
	cmd.MarkFlagsMutuallyExclusive("btc", "usd")
	cmd.MarkFlagsOneRequired("btc", "usd")
	_ = cmd.MarkFlagRequired("purchase")
	return cmd
}

func (f *valueFlags) request() (models.ValuationRequest, error) {
	if f.btc <= 0 && f.usd <= 0 {
		return models.ValuationRequest{}, fmt.Errorf("one of --btc or --usd must be positive")
	}
	py, pm, err := util.ParseYearMonth(f.purchase)
	if err != nil {
		return models.ValuationRequest{}, fmt.Errorf("--purchase: %w", err)
	}
	req := models.ValuationRequest{
		InputType:      models.InputBTC,
		BTCAmount:      f.btc,
		USDAmount:      f.usd,
		PurchaseYear:   py,
		PurchaseMonth:  pm,
		ComparisonType: models.CompareToday,
	}
	if f.usd > 0 {
		req.InputType = models.InputUSD
	}
	if f.future != "" {
		fy, fm, err := util.ParseYearMonth(f.future)
		if err != nil {
			return models.ValuationRequest{}, fmt.Errorf("--future: %w", err)
		}
		req.ComparisonType = models.CompareFuture
		req.FutureYear = fy
		req.FutureMonth = fm
	}
	return req, nil
}

func writeValuation(w io.Writer, v *models.Valuation) {
	fmt.Fprintf(w, "Holding:         %.8f BTC\n", v.BTCAmount)
	fmt.Fprintf(w, "Purchased:       %s at %s\n", v.PurchaseDate.Label(), util.FormatUSD(v.PurchasePrice))
	fmt.Fprintf(w, "Cost basis:      %s\n", util.FormatUSD(v.PurchaseValue))
	label := "Today"
	if v.IsProjection {
		label = "Projected"
	}
	fmt.Fprintf(w, "%-16s %s at %s\n", label+":", v.ComparisonDate.Label(), util.FormatUSD(v.ComparisonPrice))
	fmt.Fprintf(w, "Value:           %s\n", util.FormatUSD(v.CurrentValue))
	fmt.Fprintf(w, "Profit/Loss:     %s (%+.2f%%)\n", util.FormatUSD(v.ProfitLoss), v.ProfitLossPct)
	if v.ProjectionInfo != "" {
		fmt.Fprintf(w, "\n%s\n", v.ProjectionInfo)
	}
}
