package domain

type CtxKey string

const (
	KeyUserID      CtxKey = "UserID"
	KeyUserEmail   CtxKey = "Email"
	KeySessionID   CtxKey = "SessionID"
	KeyAccessToken CtxKey = "AccessToken"
)
