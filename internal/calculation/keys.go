package calculation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// keySpace namespaces the name-based UUIDs of computed values.
var keySpace = uuid.MustParse("6f1f3c1e-6c55-4f0a-9a57-2b1f8d2f4a11")

// valueKey derives a stable identifier for a computed value from the account
// and the parts that make the value unique within it.
func valueKey(accountID int, kind string, parts ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%s", accountID, kind)
	for _, p := range parts {
		fmt.Fprintf(&b, "/%v", p)
	}
	return uuid.NewSHA1(keySpace, []byte(b.String())).String()
}
