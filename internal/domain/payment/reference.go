package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewOrderReference generates a human-readable order-of-payment reference:
// OP-<kind prefix>-<date>-<random suffix>, e.g. OP-DR-20250114-a3f9c1.
// The random suffix makes collisions across kinds negligible; the caller
// persists the value and must generate it at most once per submission.
func NewOrderReference(now time.Time, kindPrefix string) string {
	return fmt.Sprintf("OP-%s-%s-%s", strings.ToUpper(kindPrefix), now.Format("20060102"), randomSuffix())
}

// randomSuffix returns 6 hex characters from crypto/rand
func randomSuffix() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// nanosecond stamp rather than panic in the request path
		return fmt.Sprintf("%06x", time.Now().UnixNano()&0xffffff)
	}
	return hex.EncodeToString(b)
}
