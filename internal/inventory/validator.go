package inventory

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// QuantitySpec is the candidate split checked before any ledger write.
type QuantitySpec struct {
	TotalQuantity  int
	OnlineQuantity int
	Allocations    []AllocationInput
}

// AllocationInput is one proposed store allocation inside a QuantitySpec.
type AllocationInput struct {
	ManagerID string
	Quantity  int
}

// Violations maps a field path to the reason it was rejected, so callers can
// surface every problem at once instead of the first one found.
type Violations map[string]string

// Err folds all violations into a single error for wrapping and logging.
func (v Violations) Err() error {
	var err error
	for field, reason := range v {
		err = multierr.Append(err, fmt.Errorf("%s: %s", field, reason))
	}
	return err
}

// ValidateQuantitySplit checks a proposed total/online/offline split. It is a
// pure function: no repository access, no mutation. A nil result means the
// split satisfies the conservation invariant
// online + sum(offline) <= total.
func ValidateQuantitySplit(spec QuantitySpec) Violations {
	violations := Violations{}

	if spec.TotalQuantity < 0 {
		violations["total_quantity"] = "must be a non-negative integer"
	}
	if spec.OnlineQuantity < 0 {
		violations["online_quantity"] = "must be a non-negative integer"
	}
	if len(violations) > 0 {
		// Comparing a negative total against the online share is meaningless.
		return violations
	}

	if spec.OnlineQuantity > spec.TotalQuantity {
		violations["online_quantity"] = "cannot exceed total_quantity"
	}

	offlineSum := 0
	seen := make(map[string]struct{}, len(spec.Allocations))
	for i, alloc := range spec.Allocations {
		managerID := strings.TrimSpace(alloc.ManagerID)
		if managerID == "" {
			violations[allocField(i, "manager_id")] = "is required"
		}
		if alloc.Quantity < 0 {
			violations[allocField(i, "quantity")] = "must be a non-negative integer"
		}
		if managerID != "" {
			if _, dup := seen[managerID]; dup {
				violations[allocField(i, "manager_id")] = "duplicate manager in allocation set"
			}
			seen[managerID] = struct{}{}
		}
		if alloc.Quantity > 0 {
			offlineSum += alloc.Quantity
		}
	}
	if len(violations) > 0 {
		// The sum check is meaningless while individual quantities are invalid.
		return violations
	}

	if spec.OnlineQuantity+offlineSum > spec.TotalQuantity {
		violations["offline_allocations"] = fmt.Sprintf(
			"online plus offline quantities (%d) exceed total_quantity (%d)",
			spec.OnlineQuantity+offlineSum, spec.TotalQuantity,
		)
	}

	if len(violations) == 0 {
		return nil
	}
	return violations
}

func allocField(index int, field string) string {
	return fmt.Sprintf("offline_allocations[%d].%s", index, field)
}
