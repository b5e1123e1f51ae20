package constants

// Directory names and paths used by Olympus for organizing data.
const (
	// OlympusHome is the hidden directory name where Olympus stores all its data.
	// This directory is created in the user's home directory.
	OlympusHome = ".olympus"

	// MemoryDir holds the file-backed persistence namespaces.
	MemoryDir = "memory"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// TaskLogsDir holds one JSON-lines event log per task.
	TaskLogsDir = "tasks"

	// EvolutionDir holds the evolution log.
	EvolutionDir = "evolution"
)

// File names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.olympus/logs/olympus.log
	CLILogFileName = "olympus.log"

	// EvolutionLogFileName is the append-only evolution event log.
	EvolutionLogFileName = "evolution_log.jsonl"

	// TaskLogExtension is appended to a task id to name its event log.
	TaskLogExtension = ".jsonl"

	// RecordExtension is appended to a key to name its record file.
	RecordExtension = ".json"

	// IndexSuffix is appended to a namespace to name its key index file.
	IndexSuffix = "_index.json"

	// SQLiteFileName is the default database file for the sqlite backend.
	SQLiteFileName = "olympus.db"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the project-local configuration directory.
	ProjectConfigDir = ".olympus"
)
