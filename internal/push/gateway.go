package push

import "context"

// Gateway определяет интерфейс push-шлюза. Обе операции best-effort:
// ошибка отправки логируется вызывающей стороной и никогда не блокирует
// остальные каналы доставки.
type Gateway interface {
	// SendToTopic отправляет одно сообщение на broadcast-топик.
	// Возвращает id сообщения от шлюза.
	SendToTopic(ctx context.Context, topic string, msg *Message) (string, error)

	// SendToTokens отправляет пакет по токенам устройств; частичные ошибки
	// считаются по токенам и не прерывают пакет.
	SendToTokens(ctx context.Context, tokens []string, msg *Message) (*SendReport, error)

	// Validate проверяет конфигурацию шлюза.
	Validate() error

	// Close освобождает ресурсы шлюза.
	Close() error
}
