// Copyright (c) 2026 Vivi Sews. All rights reserved.

package events

import "time"

// SetClock replaces the publisher's time source.
func (publisher *AMQPPublisher) SetClock(now func() time.Time) {
	publisher.now = now
}
