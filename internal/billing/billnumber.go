package billing

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBillNumber produces a bill identifier of the form SW-20260110-AB12CD:
// the lounge prefix, the settlement date, and six hex characters of entropy.
// Readable over the phone, unique enough for a single venue.
func NewBillNumber(now time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(id[:3]))
	return fmt.Sprintf("SW-%s-%s", now.Format("20060102"), suffix)
}
