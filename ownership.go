package tasks

// Decision is the outcome of an ownership check
type Decision int

const (
	// Deny is the zero value; a missing check never allows by accident
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool {
	return d == Allow
}

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Authorize gates every read, update and delete on an owned resource.
// The only policy is single-owner isolation: the acting user must be the
// resource owner. There is no group or role escalation path.
func Authorize(actingUserID, resourceOwnerID int64) Decision {
	if actingUserID == 0 {
		return Deny
	}

	if actingUserID == resourceOwnerID {
		return Allow
	}

	return Deny
}

// AuthorizeOrNotFound collapses a Deny into the same error a missing
// resource produces. Callers probing other users' ids learn nothing about
// whether the resource exists.
func AuthorizeOrNotFound(actingUserID, resourceOwnerID int64) error {
	if Authorize(actingUserID, resourceOwnerID).Allowed() {
		return nil
	}
	return ErrTaskNotFound
}
