package backup

import (
	"time"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
)

// Marker separates the target filename from the backup timestamp.
const Marker = ".bak."

// Timestamp layouts for backup suffixes. The nanosecond variant is used when
// two backups of the same file land in the same second; both layouts sort
// lexicographically in creation order.
const (
	TimestampFormat     = "20060102-150405"
	timestampNanoFormat = "20060102-150405.000000000"
)

// ErrNoBackupsFound indicates no backups exist for the requested file.
var ErrNoBackupsFound = errors.New("no backups found")

// Entry describes one backup in a file's ledger.
type Entry struct {
	// Path is the backup file itself.
	Path string

	// Target is the file the backup was taken from.
	Target string

	// CreatedAt is parsed from the backup suffix. It is zero when the
	// suffix does not parse as a timestamp; hand-renamed backups still
	// count as ledger entries.
	CreatedAt time.Time
}
