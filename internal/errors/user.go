package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to user-facing text. A slice keeps
// errors.Is traversal order deterministic for wrapped errors.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// Lookups
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "The hub has no task with that id.",
			Action:  "Run 'olympus status' against the server that received the task.",
		},
	},
	{
		err: ErrAgentNotFound,
		info: ErrorInfo{
			Message: "No agent is registered under that id.",
			Action:  "Run 'olympus agents list' to see registered agents.",
		},
	},
	{
		err: ErrPatternNotFound,
		info: ErrorInfo{
			Message: "No task pattern is stored under that id.",
			Action:  "Run 'olympus patterns' to list mined patterns.",
		},
	},
	{
		err: ErrRuleNotFound,
		info: ErrorInfo{
			Message: "No collaboration rule is stored under that id.",
			Action:  "Run 'olympus rules' to list rules.",
		},
	},
	{
		err:  ErrRecordNotFound,
		info: ErrorInfo{Message: "The requested record does not exist."},
	},

	// Lifecycle
	{
		err: ErrInvalidTransition,
		info: ErrorInfo{
			Message: "The task is not in the right state for this operation.",
			Action:  "Tasks move through received, parsed, ready, executing, completed and delivered in order.",
		},
	},
	{
		err: ErrTeamNotAssigned,
		info: ErrorInfo{
			Message: "The task has no team yet.",
			Action:  "Form a claw for the task before executing it.",
		},
	},
	{
		err: ErrNoMatchedAgents,
		info: ErrorInfo{
			Message: "No registered agent has any of the required skills.",
			Action:  "Register an agent with matching skills and form the claw again.",
		},
	},

	// Input
	{
		err: ErrEmptyDescription,
		info: ErrorInfo{
			Message: "A task needs a description.",
			Action:  "Pass a non-empty description, e.g. olympus run \"write a weekly report\".",
		},
	},
	{
		err: ErrInvalidPriority,
		info: ErrorInfo{
			Message: "Unknown priority.",
			Action:  "Use one of: low, normal, high, urgent.",
		},
	},
	{
		err:  ErrInvalidKey,
		info: ErrorInfo{Message: "The record key contains path separators or is otherwise invalid."},
	},
	{
		err:  ErrEmptyValue,
		info: ErrorInfo{Message: "A required value was empty."},
	},

	// Persistence
	{
		err: ErrRecordCorrupted,
		info: ErrorInfo{
			Message: "A stored record could not be read.",
			Action:  "Inspect or remove the damaged record under ~/.olympus/memory.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Another olympus process is writing the same record.",
			Action:  "Wait and try again.",
		},
	},
	{
		err: ErrUnknownBackend,
		info: ErrorInfo{
			Message: "Unsupported storage backend.",
			Action:  "Set storage.backend to file, sqlite, redis or memory.",
		},
	},

	// Collaborators
	{
		err: ErrUnknownProvider,
		info: ErrorInfo{
			Message: "Unsupported LLM provider.",
			Action:  "Set llm.provider to mock, anthropic or openai.",
		},
	},
	{
		err: ErrMissingAPIKey,
		info: ErrorInfo{
			Message: "The LLM API key is not set.",
			Action:  "Export the variable named by llm.api_key_env_var or use llm.provider=mock.",
		},
	},
	{
		err: ErrCollaboratorUnavailable,
		info: ErrorInfo{
			Message: "The decomposition or execution service is unavailable. Built-in templates were used instead.",
			Action:  "Check your network connection and API quota.",
		},
	},
	{
		err:  ErrMalformedResponse,
		info: ErrorInfo{Message: "The LLM response was not in the expected format."},
	},

	// Configuration
	{
		err:  ErrConfigNil,
		info: ErrorInfo{Message: "Configuration was not loaded."},
	},
	{
		err: ErrConfigInvalidStorage,
		info: ErrorInfo{
			Message: "Invalid storage configuration.",
			Action:  "Check the storage section of ~/.olympus/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidLLM,
		info: ErrorInfo{
			Message: "Invalid LLM configuration.",
			Action:  "Check the llm section of ~/.olympus/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidEvolution,
		info: ErrorInfo{
			Message: "Invalid evolution configuration.",
			Action:  "Check the evolution section of ~/.olympus/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidAdaptive,
		info: ErrorInfo{
			Message: "Invalid adaptive configuration.",
			Action:  "Success probabilities must be between 0 and 1 and estimates must not be negative.",
		},
	},
	{
		err: ErrConfigInvalidServer,
		info: ErrorInfo{
			Message: "Invalid server configuration.",
			Action:  "Check the server section of ~/.olympus/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidHub,
		info: ErrorInfo{
			Message: "Invalid hub configuration.",
			Action:  "Check the hub section of ~/.olympus/config.yaml.",
		},
	},

	// CLI
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unsupported output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrServerResponse,
		info: ErrorInfo{
			Message: "The olympus server rejected the request.",
			Action:  "Check that 'olympus serve' is running and the task id is correct.",
		},
	},
}

//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo tries a direct lookup for bare sentinels, then walks the
// chain of wrapped errors. Unknown errors keep their own message.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for err.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly message along with a suggested action.
// The action is empty when there is nothing useful to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
