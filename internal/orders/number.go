package orders

import (
	"fmt"
	"time"
)

// formatOrderNumber builds ORD-YYYYMMDD-NNNNN from the running order count.
// The sequence is advisory; the unique index on order_number is the backstop
// for concurrent creates.
func formatOrderNumber(now time.Time, count int64) string {
	return fmt.Sprintf("ORD-%s-%05d", now.UTC().Format("20060102"), count+1)
}
