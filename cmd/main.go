package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/config"
	"hcrypto-price-bot/internal/cmc"
	"hcrypto-price-bot/internal/coingecko"
	"hcrypto-price-bot/internal/coinindex"
	"hcrypto-price-bot/internal/commands"
	"hcrypto-price-bot/internal/database"
	"hcrypto-price-bot/internal/defillama"
	"hcrypto-price-bot/internal/etherscan"
	"hcrypto-price-bot/internal/exclusion"
	"hcrypto-price-bot/internal/httpx"
	"hcrypto-price-bot/internal/news"
	"hcrypto-price-bot/internal/quota"
	"hcrypto-price-bot/internal/telegram"
	"hcrypto-price-bot/lib/translation"
)

type BotMetrics struct {
	CommandsProcessed  prometheus.Counter
	MessagesHandled    prometheus.Counter
	ChannelsCount      prometheus.Gauge
	MessagesPerChannel *prometheus.CounterVec
	ChannelsSet        map[int64]string
	Mutex              sync.Mutex
}

var (
	metrics = NewBotMetrics()
)

func init() {
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	metrics := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hcrypto",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hcrypto",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		ChannelsCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hcrypto",
			Subsystem: "telegram_bot",
			Name:      "channels_count",
			Help:      "The current number of unique channels the bot is operating in",
		}),
		MessagesPerChannel: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hcrypto",
				Subsystem: "telegram_bot",
				Name:      "messages_per_channel",
				Help:      "The total number of messages handled per channel",
			},
			[]string{"chat_id", "chat_name"},
		),
		ChannelsSet: make(map[int64]string),
	}

	prometheus.MustRegister(metrics.CommandsProcessed)
	prometheus.MustRegister(metrics.MessagesHandled)
	prometheus.MustRegister(metrics.ChannelsCount)
	prometheus.MustRegister(metrics.MessagesPerChannel)

	return metrics
}

func main() {
	translation.Configure(config.GetString("lang"))

	err := database.InitDB(config.GetString("db_path"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	LoadMetricsFromDB()

	app := buildApp()
	warmCaches(app)

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          config.GetString("telegram_bot_token"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	}, app)

	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, updates)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			SaveMetricsToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		SaveMetricsToDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

// buildApp wires every collaborator explicitly; nothing except the
// metrics registry is package-global state.
func buildApp() *commands.App {
	client := httpx.New(15 * time.Second)

	gate := quota.New(config.GetString("tracking_api_url"), config.GetString("tracking_api_key"), client)

	var ruleSource exclusion.Source
	if gate.Enabled() {
		ruleSource = gate
	} else {
		log.Info("API_URL not set, no calls control will be performed")
	}
	rules := exclusion.New(nil, ruleSource)

	cgClient := coingecko.NewClient(client)
	cmcClient := cmc.NewClient(client, config.GetString("cmc_api_key"))

	app := commands.NewApp()
	app.CoinGecko = cgClient
	app.CMC = cmcClient
	app.Etherscan = etherscan.NewClient(client, config.GetString("etherscan_api_key"))
	app.DefiLlama = defillama.NewClient(client)
	app.News = news.NewClient(config.GetString("news_feed_url"))
	app.Gate = gate

	app.CGIndex = coinindex.New(coinindex.Config{
		Name:      "coingecko",
		Fetch:     cgClient.CoinList,
		Normalize: coingecko.NormalizeSymbol,
		Exclude:   rules.IsExcluded,
	})
	app.CMCIndex = coinindex.New(coinindex.Config{
		Name:      "coinmarketcap",
		Fetch:     cmcClient.Map,
		Normalize: cmc.NormalizeSymbol,
	})

	if gate.Enabled() {
		go refreshRulesLoop(rules)
	}
	go refreshIndexLoop(app.CGIndex)
	if config.GetString("cmc_api_key") != "" {
		go refreshIndexLoop(app.CMCIndex)
	}

	return app
}

// warmCaches loads the coin catalogs once at startup so the first user
// command does not pay for a full catalog download.
func warmCaches(app *commands.App) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.CGIndex.RefreshIfStale(ctx); err != nil {
		log.Errorf("initial CoinGecko catalog load failed: %v", err)
	}
	if config.GetString("cmc_api_key") != "" {
		if err := app.CMCIndex.RefreshIfStale(ctx); err != nil {
			log.Errorf("initial CoinMarketCap catalog load failed: %v", err)
		}
	}
}

// refreshIndexLoop keeps a coin catalog within its TTL. RefreshIfStale
// is idempotent inside the TTL window, so the short tick is cheap.
func refreshIndexLoop(index *coinindex.Cache) {
	for {
		time.Sleep(10 * time.Minute)
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := index.RefreshIfStale(ctx); err != nil {
			log.Error(err)
		}
		cancel()
	}
}

// refreshRulesLoop refetches exclusion rules more often than the catalog
// TTL so rule changes apply without waiting for a catalog refresh.
func refreshRulesLoop(rules *exclusion.RuleSet) {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := rules.Refresh(ctx); err != nil {
			log.Error(err)
		}
		cancel()
		time.Sleep(15 * time.Minute)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

func handleUpdates(bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.CallbackQuery != nil {
			handleCallback(bot, update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			log.Debug("Received non-message or non-command")
			continue
		}

		if !update.Message.IsCommand() {
			continue
		}

		metrics.MessagesHandled.Inc()

		chatID := update.Message.Chat.ID
		chatName := update.Message.Chat.Title
		if chatName == "" {
			chatName = fmt.Sprintf("%s-%d", "PrivateChat", chatID)
		}

		updateChannelsSet(chatID, chatName)

		metrics.MessagesPerChannel.WithLabelValues(
			fmt.Sprintf("%d", chatID), chatName,
		).Inc()

		handleCommand(bot, update)
	}
}

func handleCommand(bot *telegram.Bot, update tgbotapi.Update) {
	defer recoverCommand()

	text := bot.HandleUpdate(update)
	if text == "" {
		metrics.CommandsProcessed.Inc()
		return
	}

	err := bot.SendMessage(telegram.Message{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		MessageID: update.Message.MessageID,
	})

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func handleCallback(bot *telegram.Bot, callbackQuery *tgbotapi.CallbackQuery) {
	defer recoverCommand()
	bot.HandleCallbackQuery(callbackQuery)
}

// recoverCommand keeps a panicking handler from taking the bot down;
// the user's command stays answered by the generic error path.
func recoverCommand() {
	if r := recover(); r != nil {
		stackBuf := make([]byte, 1024)
		stackSize := runtime.Stack(stackBuf, false)
		stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
		log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
	}
}

func updateChannelsSet(chatID int64, chatName string) {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	if _, exists := metrics.ChannelsSet[chatID]; !exists {
		metrics.ChannelsSet[chatID] = chatName
		metrics.ChannelsCount.Set(float64(len(metrics.ChannelsSet)))
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func LoadMetricsFromDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	commandsProcessed, _ := database.GetMetric("commands_processed")
	messagesHandled, _ := database.GetMetric("messages_handled")
	channelsCount, _ := database.GetMetric("channels_count")

	metrics.CommandsProcessed.Add(commandsProcessed)
	metrics.MessagesHandled.Add(messagesHandled)
	metrics.ChannelsCount.Set(channelsCount)

	metricsWithLabels, _ := database.GetMetricsWithLabels("messages_per_channel")
	for chatIDStr, labelValues := range metricsWithLabels {
		for chatName, value := range labelValues {
			metrics.MessagesPerChannel.WithLabelValues(chatIDStr, chatName).Add(value)

			chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
			if err != nil {
				log.Errorf("Failed to parse chatID %s: %v", chatIDStr, err)
				continue
			}
			metrics.ChannelsSet[chatID] = chatName
		}
	}

	log.Debug("Metrics loaded from database.")
}

func SaveMetricsToDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	database.SaveMetric("commands_processed", "", "", GetMetricValue(metrics.CommandsProcessed))
	database.SaveMetric("messages_handled", "", "", GetMetricValue(metrics.MessagesHandled))
	database.SaveMetric("channels_count", "", "", float64(len(metrics.ChannelsSet)))

	metricChan := make(chan prometheus.Metric, 1)
	go func() {
		metrics.MessagesPerChannel.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Errorf("Failed to read MessagesPerChannel metric: %v", err)
			continue
		}
		var chatID, chatName string
		for _, label := range metricProto.Label {
			if label.GetName() == "chat_id" {
				chatID = label.GetValue()
			}
			if label.GetName() == "chat_name" {
				chatName = label.GetValue()
			}
		}
		database.SaveMetric("messages_per_channel", chatID, chatName, metricProto.Counter.GetValue())
	}

	log.Debug("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
