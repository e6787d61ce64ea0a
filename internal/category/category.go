package category

import (
	"github.com/google/uuid"
)

// Category names a bucket transactions are grouped under. System defaults
// have no owner and are visible to everyone; user categories are scoped to
// their owner.
type Category struct {
	ID      uuid.UUID
	OwnerID *uuid.UUID // nil for system defaults
	Name    string
}
