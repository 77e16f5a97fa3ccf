package dispatch

import (
	"bloodbridge_backend/internal/models"
)

// Resolve вычисляет набор получателей для события kind.
//
// Broadcast-события получают все зарегистрированные пользователи кроме
// заявителя (фильтрации по давности донорства нет - наблюдаемое поведение
// системы). Action-события получают заявитель и последний принявший донор.
// Результат дедуплицирован и очищен от пустых id; пустой набор - валидный
// исход, доставка по нему просто не выполняется.
func Resolve(request *models.Request, kind EventKind, allUserIDs []string) []string {
	switch {
	case kind.IsBroadcast():
		recipients := make([]string, 0, len(allUserIDs))
		for _, id := range allUserIDs {
			if id == "" || id == request.RequesterID {
				continue
			}
			recipients = append(recipients, id)
		}
		return dedupe(recipients)

	case kind.IsAction():
		targets := []string{request.RequesterID}
		if acceptor := request.LastResponder(); acceptor != "" {
			targets = append(targets, acceptor)
		}
		recipients := make([]string, 0, len(targets))
		for _, id := range targets {
			if id != "" {
				recipients = append(recipients, id)
			}
		}
		return dedupe(recipients)

	default:
		return nil
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
