package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanghive/hang-bot/internal/bot"
	"github.com/hanghive/hang-bot/internal/llm"
	"github.com/hanghive/hang-bot/internal/messaging"
	"github.com/hanghive/hang-bot/internal/metrics"
)

// workerQueue is the NATS queue group shared by botworker instances so each
// generation request is processed exactly once.
const workerQueue = "botworkers"

func main() {
	log.Println("Starting HangHive generation worker...")

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = llm.DefaultModel
	}

	genTimeout := 60 * time.Second
	if v := os.Getenv("GENERATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			genTimeout = d
		}
	}

	metricsAddr := ":9091"
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		metricsAddr = v
	}

	// Gemini backend setup.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := llm.NewGeminiBackend(ctx, apiKey, model)
	cancel()
	if err != nil {
		log.Fatalf("failed to create gemini backend: %v", err)
	}
	service := bot.New(llm.NewClient(backend))

	// NATS setup.
	natsConfig := messaging.DefaultNATSConfig()
	if v := os.Getenv("NATS_URL"); v != "" {
		natsConfig.URL = v
	}
	natsConfig.Name = "hang-botworker"

	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	// Subscribe to generation requests as part of the worker queue group.
	err = natsClient.SubscribeGenRequests(workerQueue, func(data []byte) {
		var req messaging.GenRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("[botworker] failed to unmarshal request: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
		defer cancel()

		result := messaging.GenResult{
			RequestID: req.RequestID,
			SessionID: req.SessionID,
			ChannelID: req.ChannelID,
			Kind:      req.Kind,
		}

		start := time.Now()
		switch req.Kind {
		case messaging.GenKindAsk:
			text, in := service.GenerateReply(ctx, req.CommunityType, req.Message, req.History)
			result.Text = text
			result.Intent = string(in)

		case messaging.GenKindSummarize:
			result.Text = service.Summarize(ctx, req.Messages)

		case messaging.GenKindTopic:
			result.Text = service.SummarizeTopic(ctx, req.Topic, req.Messages)

		default:
			log.Printf("[botworker] unknown request kind %q request=%s", req.Kind, req.RequestID)
			return
		}

		log.Printf("[botworker] %s request=%s session=%s intent=%s took=%s",
			req.Kind, req.RequestID, req.SessionID, result.Intent, time.Since(start).Round(time.Millisecond))

		respData, err := json.Marshal(result)
		if err != nil {
			log.Printf("[botworker] failed to marshal result: %v", err)
			return
		}
		if err := natsClient.PublishGenResult(req.SessionID, respData); err != nil {
			log.Printf("[botworker] failed to publish result: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to subscribe to generation requests: %v", err)
	}

	// Expose Prometheus metrics.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			log.Printf("[botworker] metrics server error: %v", err)
		}
	}()

	log.Printf("HangHive generation worker running")
	log.Printf("  nats_url:     %s", natsConfig.URL)
	log.Printf("  model:        %s", model)
	log.Printf("  gen_timeout:  %s", genTimeout)
	log.Printf("  metrics_addr: %s", metricsAddr)

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	natsClient.Close()
}
