package notifier

// Message модель сообщения для шлюза уведомлений (чат-бот)
type Message struct {
	RecipientID int64  `json:"recipientId"`
	Text        string `json:"text"`
	Kind        string `json:"kind"` // appointment_update / reminder / new_request
}

// ErrorResponse модель ошибки от шлюза уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
