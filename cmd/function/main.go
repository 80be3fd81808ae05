package main

import (
	"context"

	"github.com/ivanoskov/walriust/internal/bot"
	"github.com/ivanoskov/walriust/internal/config"
	"github.com/ivanoskov/walriust/internal/events"
	"github.com/ivanoskov/walriust/internal/logging"
	"github.com/ivanoskov/walriust/internal/repository"
	"github.com/ivanoskov/walriust/internal/service"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler обрабатывает одно webhook-обновление Telegram
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}
	logger := logging.Setup(cfg.LogLevel)

	repo, err := repository.New(repository.Options{
		Backend:      cfg.DataBackend,
		SQLiteDBPath: cfg.SQLiteDBPath,
		DatabaseURL:  cfg.DatabaseURL,
		SupabaseURL:  cfg.SupabaseURL,
		SupabaseKey:  cfg.SupabaseKey,
	})
	if err != nil {
		return errorResponse(err)
	}
	defer repo.Close()

	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return errorResponse(err)
	}
	defer publisher.Close()

	tracker := service.NewExpenseTracker(repo,
		service.WithPublisher(publisher),
		service.WithLocation(cfg.Location),
		service.WithListLimit(cfg.ListLimit),
		service.WithLogger(logger),
	)

	b, err := bot.NewBot(cfg.TelegramToken, tracker, bot.WithLogger(logger))
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
