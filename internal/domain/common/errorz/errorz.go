package errorz

import "errors"

var (
	ErrNoMemberID = errors.New("member payload has no id")
	ErrScanLocked = errors.New("scan is already running")
	ErrEmptyPhoto = errors.New("empty photo source")
	ErrBadDataURL = errors.New("malformed base64 data url")
)
