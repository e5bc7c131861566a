package commands

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"hcrypto-price-bot/internal/quota"
	"hcrypto-price-bot/lib/helpers"
)

// DefaultChartPeriod is used when a chart is requested without a period.
const DefaultChartPeriod = "30"

// ChartPeriods are the selectable periods, in keyboard order. The key is
// the provider's "days" parameter.
var ChartPeriods = []struct {
	Key   string
	Label string
}{
	{"1", "24h"},
	{"7", "7d"},
	{"30", "30d"},
	{"90", "90d"},
	{"365", "1y"},
	{"max", "max"},
}

// Chart renders the price chart PNG and its caption for a resolved coin
// id. Rendered charts are cached for five minutes per coin, period and
// theme so period-keyboard clicking does not hammer the provider.
func (a *App) Chart(ctx context.Context, coinID, period, chatID string) ([]byte, string, error) {
	if period == "" {
		period = DefaultChartPeriod
	}
	log.Debugf("processing command /c for coin %s, period %s", coinID, period)

	theme := a.ChartTheme()
	cacheKey := coinID + "|" + period + "|" + theme

	if item, found := a.cacheGet(cacheKey); found {
		log.Debugf("returning cached chart for %s", cacheKey)
		return item.ChartData, item.Caption, nil
	}

	if !a.Gate.CheckAndRecord(ctx, quota.ServiceCoinGecko, quota.ActionChart, chatID, coinID) {
		return nil, quotaExceededMessage(), nil
	}

	marketChart, err := a.CoinGecko.MarketChart(ctx, coinID, period)
	if err != nil {
		return nil, "", err
	}

	times, prices := marketChart.PricePoints()
	if len(prices) == 0 {
		return nil, "", errors.Errorf("no chart data for coin %s", coinID)
	}

	title := coinID
	if entry, ok := a.CGIndex.ByID(coinID); ok {
		title = fmt.Sprintf("%s (%s)", entry.Name, strings.ToUpper(entry.Symbol))
	}

	chartData, err := renderChart(title, periodLabel(period), theme, times, prices)
	if err != nil {
		return nil, "", errors.Wrap(err, "render chart")
	}

	caption := helpers.EscapeMarkdownV2(fmt.Sprintf("%s %s", title, periodLabel(period)))

	a.cacheSet(cacheKey, chartData, caption, 5*time.Minute)
	return chartData, caption, nil
}

func periodLabel(period string) string {
	if period == "max" {
		return "all time chart"
	}
	if period == "1" {
		return "1 day chart"
	}
	return fmt.Sprintf("%s days chart", period)
}

func renderChart(title, subtitle, theme string, times []time.Time, prices []float64) ([]byte, error) {
	background := drawing.Color{R: 55, G: 55, B: 55, A: 255}
	foreground := drawing.Color{R: 200, G: 200, B: 200, A: 255}
	if theme == ChartThemeWhite {
		background = drawing.ColorWhite
		foreground = drawing.Color{R: 51, G: 51, B: 51, A: 255}
	}
	line := drawing.Color{R: 0, G: 122, B: 255, A: 255}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s %s", title, subtitle),
		TitleStyle: chart.Style{FontColor: foreground},
		Width:      1200,
		Height:     600,
		Background: chart.Style{FillColor: background},
		Canvas:     chart.Style{FillColor: background},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontColor: foreground},
			ValueFormatter: chart.TimeValueFormatterWithFormat("02-Jan"),
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: foreground},
			ValueFormatter: func(v interface{}) string {
				if value, ok := v.(float64); ok {
					return helpers.FormatPriceUS(value, false)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: times,
				YValues: prices,
				Style: chart.Style{
					StrokeColor: line,
					StrokeWidth: 2.0,
					FillColor:   line.WithAlpha(35),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
