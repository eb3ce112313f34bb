package types

type AskBotRequest struct {
	Text    string        `json:"text" binding:"required"`
	Module  string        `json:"module"`
	Unit    string        `json:"unit"`
	History []HistoryItem `json:"history"`
}

type AnalyzeAnswerRequest struct {
	Question   string `json:"question" binding:"required"`
	UserAnswer string `json:"user_answer" binding:"required"`
	Guide      string `json:"guide" binding:"required"`
	Module     string `json:"module"`
	Unit       string `json:"unit"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
