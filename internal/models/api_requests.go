package models

type CreateOrGetUserRequest struct {
	Username string `json:"username" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt string `json:"created_at"` // ISO8601
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  bool   `json:"isAdmin"`
}

type SubmitScoreRequest struct {
	UserID   int64  `json:"userId" validate:"required,gt=0"`
	GameName string `json:"gameName" validate:"required"`
	// Pointer so a legitimate zero score still passes "required".
	Score *int64 `json:"score" validate:"required"`
	// Optional client-generated id for idempotent retries.
	SubmissionID string `json:"submissionId,omitempty" validate:"omitempty,uuid4"`
}

type SubmitScoreResponse struct {
	ScoreID int64  `json:"scoreId"`
	Message string `json:"message"`
}
