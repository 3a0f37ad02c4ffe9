// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time `json:"date"`            // Date of the genesis block, fixes the genesis hash.
	Difficulty    uint16    `json:"difficulty"`      // How difficult it needs to be to solve the work problem.
	TransPerBlock uint16    `json:"trans_per_block"` // The maximum number of transactions in a block, 0 is no limit.
}

// Default returns the genesis information used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:          time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:    2,
		TransPerBlock: 0,
	}
}

// =============================================================================

// Load opens and consumes the genesis file at the specified path.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file %q: %w", path, err)
	}

	return genesis, nil
}
