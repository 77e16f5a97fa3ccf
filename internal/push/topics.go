package push

import "strings"

// TopicNewRequests - broadcast-топик всех новых заявок.
const TopicNewRequests = "new_requests"

// BloodGroupTopic строит имя топика для группы крови: "+" -> "pos",
// "-" -> "neg", нижний регистр. Например "O+" -> "blood_opos".
// Формат должен совпадать с подпиской на клиенте.
func BloodGroupTopic(bloodGroup string) string {
	formatted := strings.ReplaceAll(bloodGroup, "+", "pos")
	formatted = strings.ReplaceAll(formatted, "-", "neg")
	return "blood_" + strings.ToLower(formatted)
}
