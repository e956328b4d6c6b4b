package routing

import "strings"

// Marker phrases per task type. The chat client phrases its structured
// requests with these fixed markers in Russian; English equivalents cover
// manual API callers. Matching is case-insensitive substring search.
//
// Order matters: a message can contain markers from several sets, and the
// first matching set in Classify's check order wins.
var (
	extractionMarkers = []string{
		"извлеки параметры",
		"извлечь параметры",
		"параметры заказа в json",
		"extract order parameters",
		"extract the parameters",
		"parameters into json",
	}

	priceCorrectionMarkers = []string{
		"корректировка цены",
		"корректировку цены",
		"подтверждение цены",
		"подтверди цену",
		"price correction",
		"price confirmation",
		"confirm the price",
	}

	costEstimationMarkers = []string{
		"рассчитай стоимость",
		"расчет стоимости",
		"оцени стоимость",
		"правила ценообразования",
		"база знаний",
		"estimate the cost",
		"cost estimate",
		"pricing rules",
		"knowledge base",
	}
)

// Classify infers the task type from the request text.
// It is a pure function: same text, same result. The label is a
// best-effort hint, not a guarantee — marker matching on natural language
// is inherently approximate, and callers must tolerate a default
// classification for any text.
func Classify(text string) TaskType {
	lower := strings.ToLower(text)

	if containsAny(lower, extractionMarkers) {
		return TaskExtraction
	}
	if containsAny(lower, priceCorrectionMarkers) {
		return TaskPriceCorrection
	}
	if containsAny(lower, costEstimationMarkers) {
		return TaskCostEstimation
	}
	return TaskDefault
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
