package errors

import "strings"

// Wallet and node software do not agree on error shapes, so rejection and
// balance failures are classified by message pattern, the same way browser
// wallets are handled.

var rejectionPatterns = []string{
	"user rejected",
	"user denied",
	"rejected by user",
	"request rejected",
	"signature was denied",
}

var insufficientFundsPatterns = []string{
	"insufficient funds",
	"insufficient balance",
	"exceeds balance",
}

// IsUserRejected reports whether err looks like a declined signature request.
func IsUserRejected(err error) bool {
	if err == nil {
		return false
	}
	if typed, ok := As(err); ok && typed.Code == CodeRejected {
		return true
	}
	return matchesAny(err.Error(), rejectionPatterns)
}

// IsInsufficientFunds reports whether err looks like a balance failure
// reported by the submission path.
func IsInsufficientFunds(err error) bool {
	if err == nil {
		return false
	}
	if typed, ok := As(err); ok && typed.Code == CodeInsufficientFunds {
		return true
	}
	return matchesAny(err.Error(), insufficientFundsPatterns)
}

func matchesAny(msg string, patterns []string) bool {
	lower := strings.ToLower(msg)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
