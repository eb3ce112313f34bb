package types

// StreamEvent is one element of the streamed response. Content events carry
// incremental deltas, never cumulative text. Exactly one terminal event is
// emitted per stream: either Done or Error.
type StreamEvent struct {
	Content string `json:"content,omitempty"`
	Score   *int   `json:"score,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ContentEvent(delta string) StreamEvent { return StreamEvent{Content: delta} }
func ScoreEvent(score int) StreamEvent      { return StreamEvent{Score: &score} }
func DoneEvent() StreamEvent                { return StreamEvent{Done: true} }
func ErrorEvent(err error) StreamEvent      { return StreamEvent{Error: err.Error()} }

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}
