package domain

import "strings"

// DefaultIntentions список намерений, предлагаемых перед началом сессии
var DefaultIntentions = []string{
	"Seeking Knowledge",
	"Halal Provision",
	"Ihsan (Excellence)",
	"Silent Reflection",
}

// NormalizeNiyyah обрезает пробелы; пустое значение заменяется первым намерением из списка
func NormalizeNiyyah(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultIntentions[0]
	}
	return s
}
