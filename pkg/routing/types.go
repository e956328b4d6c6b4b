package routing

// TaskType labels the kind of work a request asks for, inferred from its
// text. The label drives model selection, system instruction selection,
// and cache eligibility.
type TaskType string

const (
	// TaskExtraction asks for order parameters extracted into JSON.
	TaskExtraction TaskType = "extraction"

	// TaskPriceCorrection asks to correct or confirm a quoted price.
	TaskPriceCorrection TaskType = "price_correction"

	// TaskCostEstimation asks for a full packaging cost estimate.
	TaskCostEstimation TaskType = "cost_estimation"

	// TaskDefault is any request matching none of the marker sets.
	TaskDefault TaskType = "default"
)

// AllTaskTypes lists every task type, for metrics label enumeration.
var AllTaskTypes = []TaskType{TaskExtraction, TaskPriceCorrection, TaskCostEstimation, TaskDefault}

// Route is a completed routing decision.
type Route struct {
	// Task is the inferred task type.
	Task TaskType

	// Model is the upstream model identifier to use.
	Model string

	// SystemInstruction is the fixed instruction for the task type.
	SystemInstruction string
}
