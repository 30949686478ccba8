package logging

// Field names shared by all log output so entries stay greppable.
const (
	FieldFile        = "file_path"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldCount       = "count"
	FieldDropped     = "dropped"
	FieldExcluded    = "excluded"
	FieldRow         = "row"
	FieldAccount     = "account"
	FieldAttempt     = "attempt"
	FieldURL         = "url"
	FieldStatus      = "status"
	FieldCutoff      = "cutoff"
	FieldDelimiter   = "delimiter"
	FieldCredentials = "credential_source"
)
