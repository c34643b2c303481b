package repository

import "context"

// GenerationRepository - внешний бэкенд генерации текста (Gemini, Claude)
type GenerationRepository interface {
	// Generate отправляет промпт и возвращает сгенерированный текст; один запрос без повторов
	Generate(ctx context.Context, prompt string) (string, error)

	// Name - имя провайдера для логов и метрик
	Name() string
}
