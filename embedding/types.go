package embedding

// Info contains metadata about an embedding model's capabilities.
type Info struct {
	ModelName  string `json:"model_name"`
	Dimensions int    `json:"dimensions"`
	MaxTokens  int    `json:"max_tokens"`
}

// DefaultInfo returns a generic fallback for unrecognized model names.
func DefaultInfo(modelName string) Info {
	return Info{ModelName: modelName, Dimensions: 384, MaxTokens: 512}
}

// ProgressCallback is invoked during batch operations to report progress.
// current is the number of items processed so far, total is the batch size.
type ProgressCallback func(current, total int)
