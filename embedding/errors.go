package embedding

import "errors"

// ErrEmptyText is returned when Embed/EmbedBatch is asked to embed the empty
// string. Callers classify this as an EMBEDDING-kind error.
var ErrEmptyText = errors.New("embedding: refusing to embed empty text")
