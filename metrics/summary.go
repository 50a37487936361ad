package metrics

// TradingSummary aggregates trade executions over a trailing window.
type TradingSummary struct {
	TotalTrades      int                `json:"total_trades"`
	TotalVolume      float64            `json:"total_volume"`
	TotalFees        float64            `json:"total_fees"`
	TotalPnL         float64            `json:"total_pnl"`
	AvgExecutionTime float64            `json:"avg_execution_time"`
	AvgSlippage      float64            `json:"avg_slippage"`
	WinRate          float64            `json:"win_rate"`
	VolumeBySymbol   map[string]float64 `json:"volume_by_symbol"`
}

// GrowthSummary aggregates account growth over a trailing window.
type GrowthSummary struct {
	TotalGrowth         float64 `json:"total_growth"`
	AvgHourlyGrowth     float64 `json:"avg_hourly_growth"`
	MaxHourlyGrowth     float64 `json:"max_hourly_growth"`
	MinHourlyGrowth     float64 `json:"min_hourly_growth"`
	AvgGrowthPercentage float64 `json:"avg_growth_percentage"`
	GrowthStreak        int     `json:"growth_streak"`
	PositivePeriods     int     `json:"positive_periods"`
}

// LiquiditySummary aggregates order-book observations for one symbol.
type LiquiditySummary struct {
	Symbol         string  `json:"symbol"`
	AvgSpread      float64 `json:"avg_spread"`
	MinSpread      float64 `json:"min_spread"`
	MaxSpread      float64 `json:"max_spread"`
	AvgMarketDepth float64 `json:"avg_market_depth"`
	AvgVolatility  float64 `json:"avg_volatility"`
	TotalVolume    float64 `json:"total_volume"`
	DataPoints     int     `json:"data_points"`
}

// MetricStats are the per-name statistics of numeric performance samples.
type MetricStats struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// TradingSummary folds all trades recorded in the last windowHours. An empty
// window yields an all-zero summary, never an error. WinRate is the
// negative-slippage proxy: the share of trades filled better than quoted.
func (c *Collector) TradingSummary(windowHours int) (TradingSummary, error) {
	summary := TradingSummary{VolumeBySymbol: map[string]float64{}}

	trades, err := c.Trades(windowHours, "")
	if err != nil {
		return TradingSummary{}, err
	}
	if len(trades) == 0 {
		return summary, nil
	}

	var execTime, slippage float64
	wins := 0
	for _, t := range trades {
		summary.TotalVolume += t.NotionalValue
		summary.TotalFees += t.Fee
		summary.TotalPnL += t.ProfitLoss
		execTime += t.ExecutionTimeMS
		slippage += t.SlippageBPS
		if t.SlippageBPS < 0 {
			wins++
		}
		summary.VolumeBySymbol[t.Symbol] += t.NotionalValue
	}

	n := float64(len(trades))
	summary.TotalTrades = len(trades)
	summary.AvgExecutionTime = execTime / n
	summary.AvgSlippage = slippage / n
	summary.WinRate = float64(wins) / n * 100
	return summary, nil
}

// GrowthSummary folds growth records from the last windowHours. The streak
// counts consecutive newest records with positive growth, stopping at the
// first non-positive one.
func (c *Collector) GrowthSummary(windowHours int) (GrowthSummary, error) {
	records, err := c.GrowthRecords(windowHours)
	if err != nil {
		return GrowthSummary{}, err
	}
	if len(records) == 0 {
		return GrowthSummary{}, nil
	}

	summary := GrowthSummary{
		MaxHourlyGrowth: records[0].GrowthAmount,
		MinHourlyGrowth: records[0].GrowthAmount,
	}
	var pctSum float64
	for _, g := range records {
		summary.TotalGrowth += g.GrowthAmount
		pctSum += g.GrowthPercentage
		if g.GrowthAmount > summary.MaxHourlyGrowth {
			summary.MaxHourlyGrowth = g.GrowthAmount
		}
		if g.GrowthAmount < summary.MinHourlyGrowth {
			summary.MinHourlyGrowth = g.GrowthAmount
		}
		if g.GrowthAmount > 0 {
			summary.PositivePeriods++
		}
	}

	// Records arrive oldest first; scan backward for the streak.
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].GrowthAmount <= 0 {
			break
		}
		summary.GrowthStreak++
	}

	n := float64(len(records))
	summary.AvgHourlyGrowth = summary.TotalGrowth / n
	summary.AvgGrowthPercentage = pctSum / n
	return summary, nil
}

// LiquiditySummary folds observations for symbol from the last windowHours.
// With no data every numeric field is zero and the symbol is echoed back.
func (c *Collector) LiquiditySummary(symbol string, windowHours int) (LiquiditySummary, error) {
	summary := LiquiditySummary{Symbol: symbol}

	samples, err := c.LiquiditySamples(windowHours, symbol)
	if err != nil {
		return LiquiditySummary{}, err
	}
	if len(samples) == 0 {
		return summary, nil
	}

	summary.MinSpread = samples[0].Spread
	summary.MaxSpread = samples[0].Spread
	var spread, depth, vol float64
	for _, l := range samples {
		spread += l.Spread
		depth += l.MarketDepth
		vol += l.Volatility24h
		summary.TotalVolume += l.Volume24h
		if l.Spread < summary.MinSpread {
			summary.MinSpread = l.Spread
		}
		if l.Spread > summary.MaxSpread {
			summary.MaxSpread = l.Spread
		}
	}

	n := float64(len(samples))
	summary.AvgSpread = spread / n
	summary.AvgMarketDepth = depth / n
	summary.AvgVolatility = vol / n
	summary.DataPoints = len(samples)
	return summary, nil
}

// PerformanceSummary aggregates numeric samples from the last windowHours,
// one entry per metric name. Text-valued samples are stored but excluded;
// Current is the most recent numeric value of each name.
func (c *Collector) PerformanceSummary(windowHours int) (map[string]MetricStats, error) {
	samples, err := c.PerformanceSamples(windowHours, "")
	if err != nil {
		return nil, err
	}

	out := make(map[string]MetricStats)
	for _, p := range samples {
		v, ok := p.Value.Float()
		if !ok {
			continue
		}
		stats, seen := out[p.MetricName]
		if !seen {
			// Samples arrive newest first, so the first hit is Current.
			stats = MetricStats{Current: v, Min: v, Max: v}
		}
		stats.Average += v // running sum; divided below
		stats.Count++
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		out[p.MetricName] = stats
	}

	for name, stats := range out {
		stats.Average /= float64(stats.Count)
		out[name] = stats
	}
	return out, nil
}
