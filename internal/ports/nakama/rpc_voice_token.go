package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"nomercy/internal/app"
	"nomercy/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// VoiceTokenRequest asks for a signed voice token.
// Action is "login" or "join"; RoomID is required for join.
type VoiceTokenRequest struct {
	Action string `json:"action"`
	RoomID string `json:"room_id,omitempty"`
}

// VoiceTokenResponse carries the signed token back to the client.
type VoiceTokenResponse struct {
	Token string `json:"token"`
}

func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("No user session", 16) // UNAUTHENTICATED
	}

	var req VoiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["voice_secret"]
	issuer := env["voice_issuer"]
	domain := env["voice_domain"]

	if cfg := config.GetGameConfig(); cfg != nil {
		if issuer == "" {
			issuer = cfg.VoiceIssuer
		}
		if domain == "" {
			domain = cfg.VoiceDomain
		}
	}
	if secret == "" || issuer == "" || domain == "" {
		secret = "test-secret"
		issuer = "test-issuer"
		domain = "example.com"
		logger.Warn("Voice credentials missing from env, using test defaults.")
	}

	svc := app.NewVoiceService(secret, issuer, domain)
	token, err := svc.GenerateToken(userID, req.Action, req.RoomID)
	if err != nil {
		logger.Warn("rpcVoiceToken: %v", err)
		return "", runtime.NewError("Cannot generate voice token", 3)
	}

	b, _ := json.Marshal(VoiceTokenResponse{Token: token})
	return string(b), nil
}
