package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tag rules and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			problems := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				problems = append(problems, fmt.Sprintf("%s failed %q", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Synthesis.Provider == "gemini" && c.Gemini.APIKey == "" {
		return fmt.Errorf("invalid configuration: gemini synthesis requires GEMINI_API_KEY")
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid GEMINI_API_KEY format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid GEMINI_API_KEY format: too short")
		}
	}

	return nil
}

// RequireServeCredentials checks the secrets the webhook server cannot run without.
func (c *Config) RequireServeCredentials() error {
	var missing []string
	if c.Line.ChannelSecret == "" {
		missing = append(missing, "LINE_CHANNEL_SECRET")
	}
	if c.Line.ChannelAccessToken == "" {
		missing = append(missing, "LINE_CHANNEL_ACCESS_TOKEN")
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
