package report

import (
	"fmt"
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/ports"
)

// TSV renders findings as tab-separated rows for spreadsheet and diff-based
// workflows. Rows follow the sorted finding order, so two runs over the same
// tree produce identical output.
type TSV struct{}

func NewTSV() *TSV { return &TSV{} }

func (t *TSV) Render(result *ports.Result) ([]byte, error) {
	var buf strings.Builder
	buf.WriteString("Type\tProject\tFile\tLanguage\tClassification\tConfidence\n")
	for _, f := range result.Findings {
		buf.WriteString(fmt.Sprintf("unused_module\t%s\t%s\t%s\t%s\t%s\n",
			result.Project, f.Path, f.Language, f.Classification, f.Confidence))
	}
	return []byte(buf.String()), nil
}
