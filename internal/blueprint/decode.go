package blueprint

import (
	"encoding/json"
	"io"

	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// Decode reads a JSON blueprint from r. Decoding is tolerant of the quirks
// normalization repairs (duplicate ids, quoted numbers); only structurally
// invalid JSON fails.
func Decode(r io.Reader) (Blueprint, error) {
	var bp Blueprint
	if err := json.NewDecoder(r).Decode(&bp); err != nil {
		return Blueprint{}, apperrors.Wrap(apperrors.CodeBlueprintDecodeFailed, "decode blueprint", err)
	}
	return bp, nil
}

// Encode writes the blueprint as JSON to w.
func Encode(w io.Writer, bp Blueprint) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bp)
}
