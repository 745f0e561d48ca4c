package main

import (
	"context"
	"errors"
	"fmt"

	"clickupai/recommend"
	"clickupai/secret_manager"

	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/urfave/cli/v3"
)

func NewAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Store the Gemini API key in the OS keyring",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return handleManualAPIKeyAuth(secret_manager.KeyringSecretManager{}, "Gemini", recommend.GeminiAPIKeySecretName)
		},
	}
}

func handleManualAPIKeyAuth(secrets secret_manager.SecretManager, providerName, secretName string) error {
	existingKey, err := secrets.GetSecret(secretName)
	if err != nil && !errors.Is(err, secret_manager.ErrSecretNotFound) {
		return fmt.Errorf("error checking existing API key: %w", err)
	}

	if existingKey != "" {
		overwriteSelection := selection.New(
			fmt.Sprintf("An existing %s API key was found. What would you like to do?", providerName),
			[]string{"Keep existing key", "Overwrite with new key", "Delete key"},
		)
		choice, err := overwriteSelection.RunPrompt()
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}
		switch choice {
		case "Keep existing key":
			fmt.Printf("✔ Keeping existing %s API key.\n", providerName)
			return nil
		case "Delete key":
			if err := secrets.DeleteSecret(secretName); err != nil {
				return err
			}
			fmt.Printf("✔ %s API key deleted.\n", providerName)
			return nil
		}
	}

	apiKeyInput := textinput.New(fmt.Sprintf("Enter your %s API Key: ", providerName))
	apiKeyInput.Hidden = true

	apiKey, err := apiKeyInput.RunPrompt()
	if err != nil {
		return fmt.Errorf("failed to get %s API Key: %w", providerName, err)
	}
	return saveAPIKey(secrets, providerName, secretName, apiKey)
}

func saveAPIKey(secrets secret_manager.SecretManager, providerName, secretName, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API Key not provided", providerName)
	}
	if err := secrets.SetSecret(secretName, apiKey); err != nil {
		return fmt.Errorf("error storing API key in keyring: %w", err)
	}
	fmt.Printf("✔ %s API Key saved.\n", providerName)
	return nil
}
