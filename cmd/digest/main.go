package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/agent"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/config"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/logging"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/llm"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/news"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	topics := flag.String("topics", "", "Comma-separated topics to summarize")
	tone := flag.String("tone", "", "Tone of voice")
	format := flag.String("format", "", "Response format")
	language := flag.String("language", "", "Language")
	interaction := flag.String("interaction", "", "Interaction style")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel))

	prefs := model.Preferences{
		Tone:        *tone,
		Format:      *format,
		Language:    *language,
		Interaction: *interaction,
		Topics:      model.SplitTopics(*topics),
	}
	if len(prefs.Topics) == 0 {
		log.Fatalf("no topics given, use -topics")
	}

	searcher, err := news.NewSearcher(cfg.NewsProvider, news.Options{
		ExaAPIKey:          cfg.ExaAPIKey,
		ExaBaseURL:         cfg.ExaBaseURL,
		FinnhubAPIKey:      cfg.FinnhubAPIKey,
		AlphaVantageAPIKey: cfg.AlphaVantageAPIKey,
	})
	if err != nil {
		log.Fatalf("error creating news searcher: %v", err)
	}

	var summarizer llm.Summarizer
	switch {
	case cfg.SummaryProvider == "anthropic" && cfg.AnthropicAPIKey != "":
		summarizer = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		summarizer = llm.NewOpenAIClient(cfg.OpenAIAPIKey, llm.OpenAIOptions{
			BaseURL:      cfg.OpenAIBaseURL,
			SummaryModel: cfg.SummaryModel,
		})
	default:
		slog.Warn("no model credential set, using local summaries")
	}

	tools := agent.NewDispatcher(searcher, agent.DispatcherOptions{
		Summarizer:   summarizer,
		DefaultCount: cfg.NewsResults,
		Timeout:      cfg.RequestTimeout,
	})

	slog.Info("building digest", "topics", prefs.Topics, "news_provider", searcher.Name())

	failed := 0
	for _, d := range tools.Digest(context.Background(), prefs) {
		if d.Err != nil {
			slog.Error("error fetching topic", "topic", d.Topic, "error", d.Err)
			fmt.Printf("Topic: %s\nNews search error: %v\n\n", d.Topic, d.Err)
			failed++
			continue
		}
		if d.Warning != "" {
			slog.Warn("model summary failed, local summary used", "topic", d.Topic, "warning", d.Warning)
		}
		slog.Info("topic summarized", "topic", d.Topic, "article_count", d.Articles, "model", d.Model)
		fmt.Printf("Topic: %s\n%s\n\n", d.Topic, d.Summary)
	}

	if failed == len(prefs.Topics) {
		os.Exit(1)
	}
}
