package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/agent"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/config"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/handler"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/logging"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/metrics"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/llm"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/news"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel))

	searcher, err := news.NewSearcher(cfg.NewsProvider, news.Options{
		ExaAPIKey:          cfg.ExaAPIKey,
		ExaBaseURL:         cfg.ExaBaseURL,
		FinnhubAPIKey:      cfg.FinnhubAPIKey,
		AlphaVantageAPIKey: cfg.AlphaVantageAPIKey,
	})
	if err != nil {
		log.Fatalf("error creating news searcher: %v", err)
	}

	var chat llm.ChatClient
	var summarizer llm.Summarizer
	if cfg.OpenAIAPIKey != "" {
		client := llm.NewOpenAIClient(cfg.OpenAIAPIKey, llm.OpenAIOptions{
			BaseURL:      cfg.OpenAIBaseURL,
			ChatModel:    cfg.OpenAIModel,
			SummaryModel: cfg.SummaryModel,
		})
		chat = client
		summarizer = client
	} else {
		slog.Warn("OPENAI_API_KEY not set, answering with the offline fallback")
	}

	if cfg.SummaryProvider == "anthropic" {
		if cfg.AnthropicAPIKey != "" {
			summarizer = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		} else {
			slog.Warn("ANTHROPIC_API_KEY not set, keeping the default summarizer")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	tools := agent.NewDispatcher(searcher, agent.DispatcherOptions{
		Summarizer:   summarizer,
		DefaultCount: cfg.NewsResults,
		Timeout:      cfg.RequestTimeout,
		Metrics:      m,
	})
	orchestrator := agent.NewOrchestrator(chat, tools, agent.Options{
		MaxRoundTrips:  cfg.MaxRoundTrips,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        m,
	})
	chatHandler := handler.NewChatHandler(orchestrator)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger())

	allowedOrigins := cfg.AllowedOrigins()
	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-ID"},
	}))

	r.POST("/chat", handler.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst), chatHandler.PostChat)
	r.GET("/health", chatHandler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	slog.Info("starting server", "addr", cfg.Addr(), "news_provider", searcher.Name(), "model_enabled", chat != nil)

	err = r.Run(cfg.Addr())
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
