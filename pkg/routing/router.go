package routing

import (
	"fmt"
	"log/slog"
)

// Fixed system instructions per task type. Extraction and price correction
// demand JSON-only output so downstream parsing stays mechanical; cost
// estimation gets the domain framing; everything else gets the plain
// assistant instruction.
const (
	instructionDefault = "Ты — ассистент по расчету стоимости производства упаковки. " +
		"Отвечай кратко и по делу на языке пользователя."

	instructionExtraction = "Извлеки параметры заказа упаковки из сообщения пользователя. " +
		"Ответ — только валидный JSON-массив объектов с полями параметров, без пояснений, " +
		"без markdown, без текста до или после JSON."

	instructionPriceCorrection = "Скорректируй или подтверди цену заказа упаковки по сообщению пользователя. " +
		"Ответ — только валидный JSON-объект с итоговой ценой и обоснованием полей, без пояснений вне JSON."

	instructionCostEstimation = "Ты — эксперт по ценообразованию производства упаковки. " +
		"Рассчитай стоимость заказа по правилам ценообразования: материалы, тираж, " +
		"красочность, постпечатная обработка. Покажи составляющие расчета и итоговую цену."
)

// Router maps request text to an upstream model and system instruction.
// Extraction, price correction, and default traffic go to the fast model;
// cost estimation, the quality-sensitive path, goes to the capable model.
type Router struct {
	fastModel    string
	capableModel string
	logger       *slog.Logger
}

// RouterConfig configures the router's model pair.
type RouterConfig struct {
	// FastModel is the cheaper upstream model for mechanical tasks.
	FastModel string

	// CapableModel is the stronger upstream model for cost estimation.
	CapableModel string

	// Logger receives classification diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// NewRouter creates a router from config.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if cfg.FastModel == "" {
		return nil, fmt.Errorf("fast model cannot be empty")
	}
	if cfg.CapableModel == "" {
		return nil, fmt.Errorf("capable model cannot be empty")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Router{
		fastModel:    cfg.FastModel,
		capableModel: cfg.CapableModel,
		logger:       cfg.Logger,
	}, nil
}

// Route classifies the request text and returns the routing decision.
// Route never fails: unclassifiable text gets the default task and the
// fast model.
func (r *Router) Route(text string) Route {
	task := Classify(text)

	route := Route{
		Task:              task,
		Model:             r.fastModel,
		SystemInstruction: instructionDefault,
	}

	switch task {
	case TaskExtraction:
		route.SystemInstruction = instructionExtraction
	case TaskPriceCorrection:
		route.SystemInstruction = instructionPriceCorrection
	case TaskCostEstimation:
		route.Model = r.capableModel
		route.SystemInstruction = instructionCostEstimation
	}

	r.logger.Debug("request routed",
		"task", string(task),
		"model", route.Model,
	)

	return route
}
