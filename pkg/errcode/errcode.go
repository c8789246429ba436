package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBEmptyDatabaseError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Ingest errors
	IngestOpenError
	IngestParseError
	IngestValidationError
	IngestInsertError
	IngestTaxonomyError

	// Embedding errors
	EmbedEngineError
	EmbedCacheError

	// Classifier errors
	ClassifyLoadError
	ClassifySaveError

	// Mapping errors
	MapLoadError
	MapSaveError
	MapIndexError
	MapInferenceError
	MapCheckpointError
	MapReviewQueueError
	MapServiceLostError

	// Concept errors
	ConceptLoadError
	ConceptSaveError
	ConceptExportError

	// Validation errors
	ValidateLoadError
	ValidateReportError
)
