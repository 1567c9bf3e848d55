package logging

// Standardized field names for structured logging.
const (
	FieldFile         = "file_path"
	FieldImportID     = "import_id"
	FieldFormat       = "format"
	FieldStage        = "stage"
	FieldStrategy     = "strategy"
	FieldDescription  = "description"
	FieldMerchantCode = "mcc"
	FieldCategory     = "category"
	FieldScore        = "score"
	FieldRow          = "row"
	FieldColumn       = "column"
	FieldHeaderOffset = "header_offset"
	FieldReason       = "reason"
	FieldCount        = "count"
	FieldWorkers      = "workers"
	FieldDuration     = "duration_ms"
	FieldOutputFile   = "output_file"
)
