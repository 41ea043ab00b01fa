package migrate

import (
	"fmt"
	"io"

	"github.com/harness/nexus-migrate/internal/style"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"
	"github.com/harness/nexus-migrate/module/maven/migrate/util"
	"github.com/harness/nexus-migrate/util/common"
	"github.com/harness/nexus-migrate/util/common/printer"
)

// PrintStats prints one row per component followed by a summary line.
func PrintStats(w io.Writer, stats []types.ComponentStat) error {
	tbl := printer.Table{
		Headers: []string{"Component", "Version", "Repository", "Assets", "Size", "Status", "Error"},
	}
	var size int64
	for _, s := range stats {
		tbl.AddRow(
			s.Name,
			s.Version,
			s.Repository,
			fmt.Sprint(s.Assets),
			common.GetSize(s.Size),
			style.Status(string(s.Status)),
			s.Error,
		)
		size += s.Size
	}

	succeeded, skipped, failed := count(stats)
	tbl.Footer = fmt.Sprintf("Total: %d, succeeded: %d, skipped: %d, failed: %d, transferred: %s",
		len(stats), succeeded, skipped, failed, common.GetSize(size))
	if err := printer.Print(w, tbl); err != nil {
		return err
	}

	if skipped > 0 {
		util.GetSkipPrinter(w).Printfln("%d components were skipped", skipped)
	}
	return nil
}

func count(stats []types.ComponentStat) (succeeded, skipped, failed int) {
	for _, s := range stats {
		switch s.Status {
		case types.StatusSuccess:
			succeeded++
		case types.StatusSkip:
			skipped++
		case types.StatusFail:
			failed++
		}
	}
	return succeeded, skipped, failed
}
