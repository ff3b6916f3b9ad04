package dto

import (
	"github.com/membify/membify-bot/internal/domain/common/errorz"
)

// MemberRecord is a member reference as received from external callers.
// Older clients send the member id as "member_id", newer ones as "id";
// both shapes are accepted and normalized here, at the boundary.
type MemberRecord struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
}

// CanonicalID resolves the dual id shape to a single member id,
// preferring the modern field when both are present.
func (r MemberRecord) CanonicalID() (string, error) {
	if r.ID != "" {
		return r.ID, nil
	}
	if r.MemberID != "" {
		return r.MemberID, nil
	}
	return "", errorz.ErrNoMemberID
}
