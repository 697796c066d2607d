package notifications

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
