package toolsurface

import (
	"os"

	"github.com/rs/zerolog/log"
)

// removeRawDataFile deletes the on-disk raw-data file for delete_file
// targets; a missing file is not an error (§4.8).
func removeRawDataFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove raw-data file")
	}
}
