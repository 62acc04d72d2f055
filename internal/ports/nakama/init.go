package nakama

import (
	"context"
	"database/sql"

	"deadline/internal/app"
	"deadline/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const defaultConfigPath = "data/game_config.json"

// InitModule wires config, RPCs, hooks and the match handler for the
// Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	configPath := env["deadline_config_path"]
	if configPath == "" {
		configPath = defaultConfigPath
	}
	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Error("InitModule: Failed to load game config from %s: %v", configPath, err)
		return err
	}

	if secret := env["voice_secret"]; secret != "" {
		voiceService = app.NewVoiceService(secret, env["voice_issuer"], env["voice_domain"])
	} else {
		logger.Warn("InitModule: Voice credentials missing from env, voice token RPC disabled.")
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDeadline, NewMatch); err != nil {
		return err
	}

	logger.Info("Deadline Go module loaded.")
	return nil
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcVoiceToken, RpcGetVoiceToken)
}
