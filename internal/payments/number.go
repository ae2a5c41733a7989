package payments

import (
	"fmt"
	"math/rand"
	"time"
)

func formatPaymentNumber(now time.Time, count int64) string {
	return fmt.Sprintf("PAY-%s-%05d", now.UTC().Format("20060102"), count+1)
}

func formatRefundNumber(now time.Time, count int64) string {
	return fmt.Sprintf("REF-%s-%05d", now.UTC().Format("20060102"), count+1)
}

func formatTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN-%s-%04d", now.UTC().Format("20060102150405"), rand.Intn(10000))
}
