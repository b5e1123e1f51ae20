package prompts

// PromptID identifies a specific prompt template.
type PromptID string

// Prompt identifiers.
const (
	// Task decomposition
	DecomposeSystem PromptID = "task/decompose_system"
	Decompose       PromptID = "task/decompose"

	// Subtask execution
	ExecuteSystem PromptID = "agent/execute_system"
	Execute       PromptID = "agent/execute"
)

//nolint:gochecknoglobals // fixed prompt set, sorted
var allPrompts = []PromptID{Execute, ExecuteSystem, Decompose, DecomposeSystem}

// DecomposeSystemData lists the agent types the model may assign.
type DecomposeSystemData struct {
	AgentTypes []string
}

// DecomposeData carries one task description to split.
type DecomposeData struct {
	Description string
	// Context is the JSON-encoded task context, empty when there is none.
	Context string
}

// ExecuteSystemData names the agent persona the model plays.
type ExecuteSystemData struct {
	AgentType string
}

// ExecuteData carries one subtask to perform.
type ExecuteData struct {
	Description string
	// Context is the JSON-encoded task context, empty when there is none.
	Context string
}
