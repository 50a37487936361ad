package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pouseidon-949/poseidon-monitor/metric"
	"github.com/Pouseidon-949/poseidon-monitor/monitor"
	"github.com/Pouseidon-949/poseidon-monitor/resource"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the monitor with a synthetic trading loop",
	Long: `Run starts the monitor with its background jobs and feeds it a
synthetic trading loop so every pipeline stage can be observed end to end.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var runInterval time.Duration

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().DurationVar(&runInterval, "interval", 5*time.Second, "synthetic loop interval")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	balance := 10000.0
	m, err := monitor.New(cfg,
		monitor.WithSampler(resource.System{}),
		monitor.WithBalanceFunc(func() float64 { return balance }),
	)
	if err != nil {
		return err
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m.Start(ctx)
	fmt.Println("monitor running; press Ctrl-C to stop")

	// Print the dashboard summary at the configured refresh interval.
	go func() {
		refresh := time.NewTicker(cfg.DashboardEvery())
		defer refresh.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-refresh.C:
				s, err := m.Dashboard().Summary()
				if err != nil {
					continue
				}
				fmt.Printf("[%s] status=%s trades=%d volume=%.2f pnl=%.2f errors=%d\n",
					s.Timestamp, s.SystemStatus, s.TotalTrades24h,
					s.TotalVolume24h, s.TotalPnL24h, s.ErrorCount24h)
			}
		}
	}()

	symbols := cfg.Symbols
	ticker := time.NewTicker(runInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return m.Stop()
		case <-ticker.C:
		}

		loopID := fmt.Sprintf("loop-%d", i)
		m.StartLoop(loopID)

		symbol := symbols[i%len(symbols)]
		side := metric.Buy
		if i%2 == 1 {
			side = metric.Sell
		}
		pnl := rand.Float64()*20 - 8
		balance += pnl

		_, err := m.LogTrade(monitor.TradeInput{
			Symbol:          symbol,
			Side:            side,
			Quantity:        0.5 + rand.Float64(),
			Price:           100 + rand.Float64()*10,
			Fee:             0.1,
			ExecutionTimeMS: 20 + rand.Float64()*30,
			SlippageBPS:     rand.Float64()*4 - 2,
			ProfitLoss:      pnl,
		})
		if err != nil {
			m.LogError(monitor.ErrorEvent{
				Type:    "demo_trade",
				Message: err.Error(),
			})
		}

		_ = m.LogLiquidityAnalysis(metric.Liquidity{
			Symbol:      symbol,
			Spread:      rand.Float64() * 0.5,
			BidSize:     rand.Float64() * 100,
			AskSize:     rand.Float64() * 100,
			MarketDepth: rand.Float64() * 1000,
		})

		m.EndLoop(loopID, err == nil, 1)
	}
}
