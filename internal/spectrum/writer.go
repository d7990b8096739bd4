package spectrum

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/RMahshie/autoeq/pkg/curve"
)

// ContentType is the MIME type of the equalizer export
const ContentType = "text/plain; charset=utf-8"

// WriteEqualizer writes c in the JamesDSP arbitrary response format: one
// "frequency<TAB>gain" line per point, three decimals, no header.
func WriteEqualizer(w io.Writer, c curve.Curve) error {
	bw := bufio.NewWriter(w)
	for _, p := range c.Points() {
		if _, err := fmt.Fprintf(bw, "%.3f\t%.3f\n", p.Frequency, p.Gain); err != nil {
			return fmt.Errorf("failed to write equalizer curve: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write equalizer curve: %w", err)
	}
	return nil
}

// EncodeEqualizer returns the JamesDSP export of c.
func EncodeEqualizer(c curve.Curve) []byte {
	var buf bytes.Buffer
	_ = WriteEqualizer(&buf, c) // bytes.Buffer writes cannot fail
	return buf.Bytes()
}
