package sink

import "errors"

var (
	ErrDeliveryFailed   = errors.New("sink: delivery failed")
	ErrAttachmentFailed = errors.New("sink: attachment upload failed")
	ErrNoPath           = errors.New("sink: file path is required")
	ErrNoRecipient      = errors.New("sink: at least one receiver is required")
	ErrNilDependency    = errors.New("sink: nil client")
	ErrEmptyName        = errors.New("sink: channel name is required")
)
