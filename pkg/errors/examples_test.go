package errors_test

import (
	"fmt"

	"github.com/dealsync/dealsync/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewUnimplementedStrategyError("manual")

	if errors.IsUnimplementedStrategy(err) {
		fmt.Println("Strategy accepted but not implemented")
	}

	// Output: Strategy accepted but not implemented
}

// Example_vendorOutage classifies a vendor 5xx through the sentinel.
func Example_vendorOutage() {
	err := errors.NewAPIError("sheets", 503, "backend unavailable")

	if errors.IsSystemUnavailable(err) {
		fmt.Println("Sheets is down, counting on the next scheduled run")
	}

	// Output: Sheets is down, counting on the next scheduled run
}

// Example_validation shows how a rejected setting reads.
func Example_validation() {
	err := errors.NewValidationError("smtp_port", 99999, "must be between 1 and 65535")

	fmt.Println(err)

	// Output: validation failed for field smtp_port: must be between 1 and 65535
}

// Example_connectionError shows the non-fatal connect failure pattern.
func Example_connectionError() {
	err := errors.WrapConnection("salesforce", errors.New("login failed"))

	// The orchestrator records the message and keeps going.
	fmt.Println(err)

	// Output: failed to connect to salesforce: login failed
}
