package dto

type CreateUserInput struct {
	Username         string  `json:"username" binding:"required,min=3,max=50"`
	Password         string  `json:"password" binding:"required,min=6,max=72"`
	Role             string  `json:"role" binding:"required,oneof=admin teacher student"`
	ClassName        *string `json:"class_name" binding:"omitempty,max=50"`
	DailyWordsTarget int     `json:"daily_words_target" binding:"omitempty,min=1,max=100"`
}
