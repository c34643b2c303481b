package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	apperrors "github.com/itinerary-microservice/internal/pkg/errors"
	"github.com/itinerary-microservice/internal/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	workerName      = "itinerary-generation"
	emptyQueueSleep = 100 * time.Millisecond
	errorSleep      = time.Second
)

// Searcher - пайплайн построения маршрута
type Searcher interface {
	Search(ctx context.Context, form domain.ItineraryFormData) (*domain.ItineraryResult, error)
}

// GenerationWorker читает stream:itinerary:generate, строит маршруты и
// публикует результат в stream:itinerary:done
type GenerationWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	searcher   Searcher
	batchSize  int
	maxRetries int
	idleSleep  time.Duration
}

func NewGenerationWorker(
	streamRepo repository.StreamRepository,
	searcher Searcher,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	idleSleep time.Duration,
	logger *zap.Logger,
) *GenerationWorker {
	if batchSize <= 0 {
		batchSize = 1
	}
	if idleSleep <= 0 {
		idleSleep = emptyQueueSleep
	}
	return &GenerationWorker{
		BaseWorker: worker.NewBaseWorker(workerName, consumerGroup, logger),
		streamRepo: streamRepo,
		searcher:   searcher,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		idleSleep:  idleSleep,
	}
}

// Start запускает воркер
func (w *GenerationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting GenerationWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamItineraryGenerate, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for !w.IsStopped() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			if !w.Pause(ctx, errorSleep) {
				break
			}
			continue
		}

		if processed == 0 && !w.Pause(ctx, w.idleSleep) {
			break
		}
	}

	logger.Info("Worker stopped")
	return nil
}

// ProcessBatch обрабатывает одну пачку сообщений; возвращает количество прочитанных
func (w *GenerationWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamItineraryGenerate, w.ConsumerGroup(), w.ConsumerName(), w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Info("Processing batch", zap.Int("message_count", len(messages)))

	// сообщения пачки независимы, пайплайны идут параллельно
	g, gctx := errgroup.WithContext(ctx)
	for _, msg := range messages {
		msg := msg
		g.Go(func() error {
			w.handleMessage(gctx, msg)
			return nil
		})
	}
	_ = g.Wait()

	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
	}
	if err := w.streamRepo.AckMessages(ctx, domain.StreamItineraryGenerate, w.ConsumerGroup(), ids); err != nil {
		// не критично: сообщения будут переобработаны
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

func (w *GenerationWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.ItineraryGenerateEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		return
	}
	logger = logger.With(zap.String("request_id", event.RequestID.String()))

	if err := event.Validate(); err != nil {
		logger.Warn("Invalid generate event", zap.Error(err))
		w.publishDone(ctx, &event, nil, err)
		return
	}

	result, err := w.searcher.Search(ctx, event.FormData)
	if err != nil && errors.Is(err, apperrors.ErrGenerationBackend) && event.Attempt < w.maxRetries {
		// генерация могла упасть временно, ставим запрос в конец очереди
		retry := event
		retry.Attempt++
		if pubErr := w.streamRepo.PublishToStream(ctx, domain.StreamItineraryGenerate, &retry); pubErr == nil {
			logger.Info("Generation failed, request re-queued",
				zap.Int("attempt", retry.Attempt),
				zap.Error(err))
			return
		}
	}

	w.publishDone(ctx, &event, result, err)
}

func (w *GenerationWorker) publishDone(ctx context.Context, event *domain.ItineraryGenerateEvent, result *domain.ItineraryResult, err error) {
	done := &domain.ItineraryDoneEvent{
		RequestID:   event.RequestID,
		Result:      result,
		CompletedAt: time.Now().UTC(),
	}
	if err != nil {
		done.Error = userMessage(err)
	}

	if pubErr := w.streamRepo.PublishToStream(ctx, domain.StreamItineraryDone, done); pubErr != nil {
		w.Logger().Error("Failed to publish done event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(pubErr))
	}
}

// userMessage - для AppError наружу уходит только пользовательское сообщение
func userMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
