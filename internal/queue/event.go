// Package queue defines message payloads exchanged over the message broker.
package queue

// NoticePostedEvent is published when an admin posts a notice. It carries
// the full notice so downstream consumers (the live feed fan-out) can
// deliver it to subscribed clients without querying the primary database.
type NoticePostedEvent struct {
	NoticeID   uint64 `json:"notice_id"`
	SchoolCode string `json:"school_code"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Priority   string `json:"priority"`
	PostedAt   string `json:"posted_at"`
}

// Name of the durable queue carrying NoticePostedEvent messages.
const NoticePostedQueue = "notice.posted"
