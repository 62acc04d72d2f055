package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"deadline/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// voiceService signs voice chat tokens. InitModule configures it from the
// runtime environment; it stays nil when no credentials are set.
var voiceService *app.VoiceService

// voiceTokenRequest is the client payload for the voice token RPC. Action
// defaults to login; join additionally needs the channel name, which for
// in-match chat is the match id.
type voiceTokenRequest struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

type voiceTokenResponse struct {
	Token string `json:"token"`
}

// RpcGetVoiceToken issues a signed token for voice chat login or channel join.
func RpcGetVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("user not authenticated", 16) // UNAUTHENTICATED
	}
	if voiceService == nil {
		return "", runtime.NewError("voice chat is not configured", 12) // UNIMPLEMENTED
	}

	var req voiceTokenRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}
	if req.Action == "" {
		req.Action = app.VoiceTokenActionLogin
	}

	token, err := voiceService.GenerateToken(userID, req.Action, req.Channel)
	if err != nil {
		logger.Warn("RpcGetVoiceToken: Rejected token request from %s: %v", userID, err)
		return "", runtime.NewError(err.Error(), 3) // INVALID_ARGUMENT
	}

	b, err := json.Marshal(voiceTokenResponse{Token: token})
	if err != nil {
		return "", runtime.NewError("internal error", 13) // INTERNAL
	}
	return string(b), nil
}
