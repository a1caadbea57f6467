package webhook

// MaxContentLength ограничение длины сообщения в Discord
const MaxContentLength = 2000

// Message тело запроса к webhook
type Message struct {
	Content string `json:"content"`
}
