package bookings

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// codeAlphabet leaves out I, O, 0 and 1.
const (
	codeAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeSuffixLen  = 5
	fallbackSuffix = 6
)

// codeDate turns a YYYY-MM-DD booking date into the YYYYMMDD code segment.
func codeDate(bookingDate string) string {
	return strings.ReplaceAll(bookingDate, "-", "")
}

// RandomCode builds BK-<ymd>-<5 chars>. intn must return a value in [0, n).
func RandomCode(ymd string, intn func(n int) int) string {
	var b strings.Builder
	b.Grow(len("BK--") + len(ymd) + codeSuffixLen)
	b.WriteString("BK-")
	b.WriteString(ymd)
	b.WriteByte('-')
	for i := 0; i < codeSuffixLen; i++ {
		b.WriteByte(codeAlphabet[intn(len(codeAlphabet))])
	}
	return b.String()
}

// FallbackCode derives BK-<ymd>-<last 6 hex digits of id, uppercased>. It is
// unique as long as the record id is.
func FallbackCode(ymd string, id uuid.UUID) string {
	s := id.String()
	return "BK-" + ymd + "-" + strings.ToUpper(s[len(s)-fallbackSuffix:])
}

// codeAllocator draws random codes and checks them against the store.
type codeAllocator struct {
	attempts int
	exists   func(ctx context.Context, code string) (bool, error)
	intn     func(n int) int
}

func newCodeAllocator(attempts int, exists func(ctx context.Context, code string) (bool, error)) *codeAllocator {
	if attempts < 1 {
		attempts = 1
	}
	return &codeAllocator{attempts: attempts, exists: exists, intn: rand.IntN}
}

// Allocate returns the first unused random code. ok is false when every
// attempt collided or the uniqueness lookup failed; callers then use
// FallbackCode.
func (a *codeAllocator) Allocate(ctx context.Context, ymd string) (code string, ok bool, err error) {
	for i := 0; i < a.attempts; i++ {
		candidate := RandomCode(ymd, a.intn)
		taken, err := a.exists(ctx, candidate)
		if err != nil {
			return "", false, err
		}
		if !taken {
			return candidate, true, nil
		}
	}
	return "", false, nil
}
